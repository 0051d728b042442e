// Package sheets fetches the staff roster from spreadsheet CSV exports and
// assembles directory sync rows from it.
package sheets

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"

	"staffbot/core/logger"
	"staffbot/internal/directory"
	"staffbot/internal/roles"
)

// Sheet identifies one tab of a spreadsheet export.
type Sheet struct {
	SpreadsheetID string
	GID           int
}

// Sources lists the four roster tabs.
type Sources struct {
	Operators     Sheet
	Consultants   Sheet
	Phones        Sheet
	OperatorsRent Sheet
}

// Feed downloads roster tabs and turns them into sync rows.
type Feed struct {
	client         *http.Client
	sources        Sources
	fixedRolesPath string
}

// NewFeed builds a roster feed. A nil client falls back to
// http.DefaultClient.
func NewFeed(client *http.Client, sources Sources, fixedRolesPath string) *Feed {
	if client == nil {
		client = http.DefaultClient
	}
	return &Feed{client: client, sources: sources, fixedRolesPath: fixedRolesPath}
}

func exportURL(s Sheet) string {
	return fmt.Sprintf(
		"https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%d",
		s.SpreadsheetID, s.GID,
	)
}

// fetchCSV downloads one tab and drops rows that are entirely blank.
func (f *Feed) fetchCSV(ctx context.Context, s Sheet) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL(s), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet gid=%d: %w", s.GID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet gid=%d: status %s", s.GID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sheet gid=%d: %w", s.GID, err)
	}
	// Exports may start with a UTF-8 BOM.
	text := strings.TrimPrefix(string(body), "\uFEFF")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet gid=%d: %w", s.GID, err)
	}

	var rows [][]string
	for _, rec := range records {
		blank := true
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			rows = append(rows, rec)
		}
	}
	logger.SVCSync.Debug("sheet fetched",
		slog.String("event", "sheet.fetch"),
		slog.Int("gid", s.GID),
		slog.Int("rows", len(rows)),
	)
	return rows, nil
}

// FixedRole pins a handle to a single role regardless of sheet contents.
type FixedRole struct {
	FullName string
	Role     roles.Role
}

// loadFixedRoles reads handle overrides from the configured JSON file.
// The file maps handle -> [full name, role]. A missing file is not an error.
func (f *Feed) loadFixedRoles() (map[string]FixedRole, error) {
	out := make(map[string]FixedRole)
	if f.fixedRolesPath == "" {
		return out, nil
	}
	data, err := os.ReadFile(f.fixedRolesPath)
	if os.IsNotExist(err) {
		logger.SVCSync.Warn("fixed roles file missing",
			slog.String("event", "fixed_roles"),
			slog.String("path", f.fixedRolesPath),
		)
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fixed roles: %w", err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixed roles: %w", err)
	}
	for handle, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("fixed roles entry %q: want [name, role]", handle)
		}
		role, err := roles.Parse(pair[1])
		if err != nil {
			return nil, fmt.Errorf("fixed roles entry %q: %w", handle, err)
		}
		out[handle] = FixedRole{FullName: pair[0], Role: role}
	}
	return out, nil
}

// FetchRows downloads every roster tab and assembles directory sync rows.
// A failure of any tab aborts the whole round so the previous directory
// snapshot stays intact.
func (f *Feed) FetchRows(ctx context.Context) ([]directory.SyncRow, error) {
	operators, err := f.fetchCSV(ctx, f.sources.Operators)
	if err != nil {
		return nil, err
	}
	consultants, err := f.fetchCSV(ctx, f.sources.Consultants)
	if err != nil {
		return nil, err
	}
	phones, err := f.fetchCSV(ctx, f.sources.Phones)
	if err != nil {
		return nil, err
	}
	operatorsRent, err := f.fetchCSV(ctx, f.sources.OperatorsRent)
	if err != nil {
		return nil, err
	}

	fixed, err := f.loadFixedRoles()
	if err != nil {
		return nil, err
	}

	return Assemble(RosterTabs{
		Operators:     operators,
		Consultants:   consultants,
		Phones:        phones,
		OperatorsRent: operatorsRent,
	}, fixed), nil
}

// RosterTabs carries the raw cell rows of the four roster tabs.
type RosterTabs struct {
	Operators     [][]string
	Consultants   [][]string
	Phones        [][]string
	OperatorsRent [][]string
}

// Assemble merges the tabs into sync rows. The phones tab maps names to
// handles (name col 0, handle col 2); the operators_rent tab carries its own
// handles (name col 0, handle col 3). Fixed-role overrides win over any
// sheet-derived role set. Rows are sorted by handle for determinism.
func Assemble(tabs RosterTabs, fixed map[string]FixedRole) []directory.SyncRow {
	operatorNames := nameSet(tabs.Operators)
	consultantNames := nameSet(tabs.Consultants)

	rentNames := make(map[string]bool)
	handleByName := make(map[string]string)

	for _, row := range tabs.Phones {
		if len(row) < 3 {
			continue
		}
		name, handle := strings.TrimSpace(row[0]), strings.TrimSpace(row[2])
		if name == "" || handle == "" {
			continue
		}
		handleByName[name] = handle
	}
	for _, row := range tabs.OperatorsRent {
		if len(row) < 4 {
			continue
		}
		name, handle := strings.TrimSpace(row[0]), strings.TrimSpace(row[3])
		if name == "" || handle == "" {
			continue
		}
		rentNames[name] = true
		handleByName[name] = handle
	}
	for handle, fr := range fixed {
		handleByName[fr.FullName] = handle
	}

	fixedByHandle := make(map[string]FixedRole, len(fixed))
	for handle, fr := range fixed {
		fixedByHandle[handle] = fr
	}

	var out []directory.SyncRow
	for name, handle := range handleByName {
		var rs []roles.Role
		if fr, ok := fixedByHandle[handle]; ok {
			rs = []roles.Role{fr.Role}
		} else {
			if operatorNames[name] {
				rs = append(rs, roles.Operator)
			}
			if consultantNames[name] {
				rs = append(rs, roles.Consultant)
			}
			if rentNames[name] {
				rs = append(rs, roles.OperatorRent)
			}
		}
		if len(rs) == 0 {
			continue
		}
		out = append(out, directory.SyncRow{Handle: handle, FullName: name, Roles: rs})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

func nameSet(rows [][]string) map[string]bool {
	set := make(map[string]bool, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if name := strings.TrimSpace(row[0]); name != "" {
			set[name] = true
		}
	}
	return set
}
