// Package nav is the navigation engine: given a principal, the conversation
// session and a user action it decides the next screen and the session
// mutation. It knows nothing about Telegram; the transport binding decodes
// callbacks into Actions and renders Screens.
package nav

import "staffbot/internal/roles"

// ActionKind enumerates the closed action vocabulary. Callback encodings are
// decoded into these variants once, at the transport boundary.
type ActionKind int

const (
	// ActBeginWork follows the welcome screen's continuation control.
	ActBeginWork ActionKind = iota
	// ActChooseSubrole is an admin picking a role to browse as.
	ActChooseSubrole
	// ActSelectMenuItem picks a labelled entry from the current role menu.
	ActSelectMenuItem
	// ActReturnToRoleChoice is the admin escape hatch back to role choice.
	ActReturnToRoleChoice
	// ActReturnToRoleMenu returns to the effective role's main menu.
	ActReturnToRoleMenu
	// ActScanAgain re-enters scanning mode from a scan result screen.
	ActScanAgain
)

// Choice is an admin role-choice option.
type Choice string

const (
	ChoiceOperator     Choice = "operator"
	ChoiceConsultant   Choice = "consultant"
	ChoiceNone         Choice = "none"
	ChoiceQRScanner    Choice = "qr_scanner"
	ChoiceOperatorRent Choice = "operator_rent"
)

// KnownChoice reports whether raw names a valid admin role-choice option.
func KnownChoice(raw string) bool {
	switch Choice(raw) {
	case ChoiceOperator, ChoiceConsultant, ChoiceNone, ChoiceQRScanner, ChoiceOperatorRent:
		return true
	}
	return false
}

// Action is one decoded user action. Only the field relevant to Kind is set.
type Action struct {
	Kind   ActionKind
	Choice Choice     // ActChooseSubrole
	Label  string     // ActSelectMenuItem
	Role   roles.Role // ActReturnToRoleMenu
}
