// Package content is the static registry of role menus and the text/image
// assets behind them.
package content

import (
	"staffbot/internal/roles"
)

// RefKind classifies what a menu entry points at.
type RefKind int

const (
	// RefText names a plain text block.
	RefText RefKind = iota
	// RefSubmenu selects another role's menu (admin role-choice entries).
	RefSubmenu
	// RefQR enters QR scanning mode.
	RefQR
)

// Ref is a content reference: a text block, a submenu marker, or the
// QR marker. Image optionally names an accompanying picture.
type Ref struct {
	Kind  RefKind
	Name  string
	Image string
}

// Entry is one menu row: display label plus content reference.
type Entry struct {
	Label string
	Ref   Ref
}

// Registry maps roles to their ordered menu entries. It is static for the
// process lifetime.
type Registry struct {
	entries map[roles.Role][]Entry
}

// NewRegistry builds a registry from per-role entries.
func NewRegistry(entries map[roles.Role][]Entry) *Registry {
	return &Registry{entries: entries}
}

// EntriesFor returns the ordered menu of a role. Roles without a menu
// (operator_rent is scan-only) return nil.
func (r *Registry) EntriesFor(role roles.Role) []Entry {
	return r.entries[role]
}

// Lookup finds the entry with the given label in a role's menu.
func (r *Registry) Lookup(role roles.Role, label string) (Entry, bool) {
	for _, e := range r.entries[role] {
		if e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}

// QRBlock is the text block shown when entering scanning mode.
const QRBlock = "qr_scanner.md"

// PublicBlock is the informational screen shown to unauthenticated users
// and to an admin browsing without a role.
const PublicBlock = "about_park.md"

// WelcomeBlock is the greeting template with name and role placeholders.
const WelcomeBlock = "welcome.md"

// LogoImage is sent with the greeting when present.
const LogoImage = "logo.png"

// DefaultEntries returns the built-in menu table.
func DefaultEntries() map[roles.Role][]Entry {
	return map[roles.Role][]Entry{
		roles.Operator: {
			{Label: "📋 Обязанности", Ref: Ref{Kind: RefText, Name: "duties_operator.md"}},
			{Label: "🌅 Утренняя подготовка", Ref: Ref{Kind: RefText, Name: "preparation_operator.md"}},
			{Label: "👥 Посетители и допуск", Ref: Ref{Kind: RefText, Name: "visitors.md", Image: "sitmap.png"}},
			{Label: "🚨 ЧП и помощь", Ref: Ref{Kind: RefText, Name: "emergency.md", Image: "fireext.png"}},
			{Label: "💰 Вопросы оплаты", Ref: Ref{Kind: RefText, Name: "payment.md"}},
			{Label: "📘 ГОСТ 33807", Ref: Ref{Kind: RefText, Name: "gost.md"}},
			{Label: "🔍 QR-сканер", Ref: Ref{Kind: RefQR, Name: QRBlock}},
		},
		roles.Consultant: {
			{Label: "📋 Обязанности", Ref: Ref{Kind: RefText, Name: "duties_consultant.md"}},
			{Label: "🌅 Утренняя подготовка", Ref: Ref{Kind: RefText, Name: "preparation_consultant.md"}},
			{Label: "💰 Вопросы оплаты", Ref: Ref{Kind: RefText, Name: "payment.md"}},
			{Label: "🚨 ЧП и помощь", Ref: Ref{Kind: RefText, Name: "emergency.md", Image: "fireext.png"}},
			{Label: "🔍 QR-сканер", Ref: Ref{Kind: RefQR, Name: QRBlock}},
		},
		roles.Admin: {
			{Label: "Меню операторов", Ref: Ref{Kind: RefSubmenu, Name: "menu_operator"}},
			{Label: "Меню консультантов", Ref: Ref{Kind: RefSubmenu, Name: "menu_consultant"}},
			{Label: "Без роли", Ref: Ref{Kind: RefSubmenu, Name: "menu_guest"}},
			{Label: "Меню аренды", Ref: Ref{Kind: RefSubmenu, Name: "menu_rent"}},
			{Label: "QR-сканер", Ref: Ref{Kind: RefQR, Name: QRBlock}},
		},
		roles.Guest: {
			{Label: "ℹ️ О парке", Ref: Ref{Kind: RefText, Name: PublicBlock}},
		},
	}
}
