package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"staffbot/core/logger"
	"staffbot/internal/roles"
)

// Postgres is the sqlx-backed directory store.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an open connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

type userRow struct {
	ID       int64  `db:"id"`
	FullName string `db:"full_name"`
	IsActive bool   `db:"is_active"`
}

// Resolve returns the principal for a handle, or nil when the handle is not
// in the directory.
func (p *Postgres) Resolve(ctx context.Context, handle string) (*Principal, error) {
	if handle == "" {
		return nil, nil
	}

	var u userRow
	err := p.db.GetContext(ctx, &u,
		`SELECT id, full_name, is_active FROM users WHERE username = $1`, handle)
	if errors.Is(err, sql.ErrNoRows) {
		logger.SVCDirectory.Debug("principal not found",
			slog.String("event", "resolve"),
			slog.String("handle", handle),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", handle, err)
	}

	var names []string
	err = p.db.SelectContext(ctx, &names, `
		SELECT r.name FROM user_roles ur
		JOIN roles r ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY ur.position`, u.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve roles for %q: %w", handle, err)
	}

	principal := &Principal{
		Handle:   handle,
		FullName: u.FullName,
		Active:   u.IsActive,
	}
	for _, name := range names {
		role, err := roles.Parse(name)
		if err != nil {
			logger.SVCDirectory.Warn("skipping unknown role",
				slog.String("event", "resolve"),
				slog.String("handle", handle),
				slog.String("role", name),
			)
			continue
		}
		principal.Roles = append(principal.Roles, role)
	}
	return principal, nil
}

// Sync upserts principals and their role assignments from the roster feed.
// Each row runs in its own transaction so a failure never leaves a principal
// with a partially replaced role set.
func (p *Postgres) Sync(ctx context.Context, rows []SyncRow) error {
	start := time.Now()
	var applied, failed int

	for _, row := range rows {
		if err := p.syncOne(ctx, row); err != nil {
			failed++
			logger.SVCSync.Error("principal sync failed",
				slog.String("event", "sync.principal"),
				slog.String("handle", row.Handle),
				slog.String("err", err.Error()),
			)
			continue
		}
		applied++
	}

	logger.SVCSync.Info("directory sync round",
		slog.String("event", "sync.summary"),
		slog.Int("applied", applied),
		slog.Int("failed", failed),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	if failed > 0 && applied == 0 {
		return fmt.Errorf("directory sync: all %d rows failed", failed)
	}
	return nil
}

func (p *Postgres) syncOne(ctx context.Context, row SyncRow) error {
	if row.Handle == "" || len(row.Roles) == 0 {
		return fmt.Errorf("invalid sync row: handle=%q roles=%d", row.Handle, len(row.Roles))
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID int64
	err = tx.GetContext(ctx, &userID, `
		INSERT INTO users (full_name, username)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id`, row.FullName, row.Handle)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}

	for pos, role := range row.Roles {
		var roleID int64
		err := tx.GetContext(ctx, &roleID,
			`SELECT id FROM roles WHERE name = $1`, string(role))
		if errors.Is(err, sql.ErrNoRows) {
			logger.SVCSync.Warn("role missing from roles table",
				slog.String("event", "sync.principal"),
				slog.String("handle", row.Handle),
				slog.String("role", string(role)),
			)
			continue
		}
		if err != nil {
			return fmt.Errorf("lookup role %q: %w", role, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_roles (user_id, role_id, position)
			VALUES ($1, $2, $3)`, userID, roleID, pos); err != nil {
			return fmt.Errorf("assign role %q: %w", role, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
