// Package directory resolves chat handles to principals and mirrors the
// staff roster into the relational store.
package directory

import (
	"context"

	"staffbot/internal/roles"
)

// Principal is an authenticated chat participant: display name plus the
// ordered set of roles the directory assigns to the handle.
type Principal struct {
	Handle   string
	FullName string
	// Roles is ordered; the first element is the primary role. The order is
	// directory-defined (the user_roles.position column), not alphabetic.
	Roles  []roles.Role
	Active bool
}

// Authorized reports whether the principal may use role menus at all.
func (p *Principal) Authorized() bool {
	return p != nil && p.Active && len(p.Roles) > 0
}

// PrimaryRole returns the first role in the directory-defined order.
func (p *Principal) PrimaryRole() roles.Role {
	if p == nil || len(p.Roles) == 0 {
		return roles.Guest
	}
	return p.Roles[0]
}

// HasRole reports whether the principal holds the given role.
func (p *Principal) HasRole(r roles.Role) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// SyncRow is one roster feed entry: a handle with its ordered role list.
type SyncRow struct {
	Handle   string
	FullName string
	Roles    []roles.Role
}

// Resolver looks principals up by handle. A nil principal with a nil error
// means the handle is unknown to the directory.
type Resolver interface {
	Resolve(ctx context.Context, handle string) (*Principal, error)
}

// Store is the full directory contract: resolution plus the roster mirror.
// Sync must apply each row's role set transactionally: a principal either
// gets its complete new role set or keeps the previous one.
type Store interface {
	Resolver
	Sync(ctx context.Context, rows []SyncRow) error
}
