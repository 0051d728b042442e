// Package roles defines the closed set of staff roles and their ordering.
package roles

import "fmt"

// Role identifies a staff role. The set is closed; names match the
// directory's roles table.
type Role string

const (
	Guest        Role = "guest"
	Operator     Role = "operator"
	Consultant   Role = "consultant"
	OperatorRent Role = "operator_rent"
	Admin        Role = "admin"
	Creator      Role = "creator"
)

// displayNames maps roles to the human-readable form used in rendered text.
var displayNames = map[Role]string{
	Admin:        "Администратор",
	Consultant:   "Консультант",
	Operator:     "Оператор",
	OperatorRent: "Оператор арендатора",
	Guest:        "Гость",
	Creator:      "Создатель",
}

// Known reports whether name belongs to the closed role set.
func Known(name string) bool {
	switch Role(name) {
	case Guest, Operator, Consultant, OperatorRent, Admin, Creator:
		return true
	}
	return false
}

// Parse converts a raw role name into a Role.
func Parse(name string) (Role, error) {
	if !Known(name) {
		return "", fmt.Errorf("unknown role: %q", name)
	}
	return Role(name), nil
}

// Display returns the display name for a role, falling back to the raw value.
func (r Role) Display() string {
	if d, ok := displayNames[r]; ok {
		return d
	}
	return string(r)
}

// Administrative reports whether a role gets the role-choice screen and
// the admin-only actions. Creator is an administrator in all but name.
func (r Role) Administrative() bool {
	return r == Admin || r == Creator
}

// Scannable reports whether a role may own a QR scanning session.
func (r Role) Scannable() bool {
	switch r {
	case Admin, Operator, Consultant, OperatorRent:
		return true
	}
	return false
}
