package nav

import (
	"fmt"
	"log/slog"

	"staffbot/core/logger"
	"staffbot/internal/content"
	"staffbot/internal/directory"
	"staffbot/internal/roles"
	"staffbot/internal/session"
)

const (
	noticeNoAccess    = "❌ Нет доступа."
	noticeDenied      = "⚠️ Доступ запрещён."
	noticeNotFound    = "⚠️ Раздел не найден."
	noticeNotScanning = "⚠️ Сканирование не активно."
	labelBeginWork    = "🚀 Приступить к работе"
	labelToRoleChoice = "🔁 На экран выбора роли"
	labelBackToChoice = "Вернуться к выбору роли"
	labelBackToMenu   = "🔙 В главное меню"
	labelScanAgain    = "Сканировать ещё"
)

// TextSource supplies rendered text blocks. *content.Assets satisfies it.
type TextSource interface {
	Text(name string) string
	Welcome(fullName string, role roles.Role) string
}

// Engine decides screen transitions. One instance serves all conversations;
// per-conversation state lives in the session store.
type Engine struct {
	registry *content.Registry
	texts    TextSource
	sessions *session.Store
	log      *slog.Logger
}

// NewEngine wires the engine to its collaborators.
func NewEngine(registry *content.Registry, texts TextSource, sessions *session.Store) *Engine {
	log := logger.NAV
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		registry: registry,
		texts:    texts,
		sessions: sessions,
		log:      log,
	}
}

// Sessions exposes the session store to the transport binding.
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

// Enter handles the greeting action. It always resets the conversation.
// Unauthenticated principals get the public screen with no controls and no
// session state.
func (e *Engine) Enter(p *directory.Principal, chatID int64) Outcome {
	e.sessions.Clear(chatID)

	if !p.Authorized() {
		e.log.Info("unauthenticated greeting",
			slog.String("event", "enter"),
			slog.Int64("chat_id", chatID),
		)
		return show(Screen{
			Kind: ScreenPublic,
			Lead: e.texts.Text(content.PublicBlock),
		})
	}

	e.log.Info("greeting",
		slog.String("event", "enter"),
		slog.Int64("chat_id", chatID),
		slog.String("handle", p.Handle),
		slog.String("primary_role", string(p.PrimaryRole())),
	)
	return show(Screen{
		Kind:  ScreenWelcome,
		Lead:  e.texts.Welcome(p.FullName, p.PrimaryRole()),
		Image: content.LogoImage,
		Controls: []Control{
			{Label: labelBeginWork, Action: Action{Kind: ActBeginWork}},
		},
	})
}

// BeginWork follows the welcome continuation control and branches on the
// primary role.
func (e *Engine) BeginWork(p *directory.Principal, chatID int64) Outcome {
	if !p.Authorized() {
		return notice(noticeNoAccess)
	}
	sess := e.sessions.Get(chatID)

	switch {
	case p.PrimaryRole().Administrative():
		return show(e.adminRoleChoiceScreen(p))
	case p.PrimaryRole() == roles.OperatorRent:
		return e.enterScanning(p, sess, roles.OperatorRent)
	default:
		return show(e.roleMenuScreen(p.PrimaryRole(), false))
	}
}

// ChooseSubrole handles the role-choice screen. Only administrators may
// use it.
func (e *Engine) ChooseSubrole(p *directory.Principal, chatID int64, choice Choice) Outcome {
	if !p.Authorized() || !p.PrimaryRole().Administrative() {
		return notice(noticeDenied)
	}
	sess := e.sessions.Get(chatID)

	switch choice {
	case ChoiceOperator, ChoiceConsultant:
		role := roles.Role(choice)
		sess.ActingRole = &role
		sess.ScanningRole = nil
		return show(e.roleMenuScreen(role, true))

	case ChoiceNone:
		sess.ClearActing()
		return show(Screen{
			Kind: ScreenPublic,
			Lead: e.texts.Text(content.PublicBlock),
			Controls: []Control{
				{Label: labelToRoleChoice, Action: Action{Kind: ActReturnToRoleChoice}},
			},
		})

	case ChoiceQRScanner:
		sess.ActingRole = nil
		return e.enterScanning(p, sess, roles.Admin)

	case ChoiceOperatorRent:
		rent := roles.OperatorRent
		sess.ActingRole = &rent
		return e.enterScanning(p, sess, roles.OperatorRent)

	default:
		return notice(noticeNotFound)
	}
}

// SelectMenuItem resolves a label against the effective role's menu.
// Unknown labels yield a notice and no session change.
func (e *Engine) SelectMenuItem(p *directory.Principal, chatID int64, label string) Outcome {
	if !p.Authorized() {
		return notice(noticeNoAccess)
	}
	sess := e.sessions.Get(chatID)
	role := sess.EffectiveRole(p.PrimaryRole())

	entry, ok := e.registry.Lookup(role, label)
	if !ok {
		e.log.Warn("menu label not found",
			slog.String("event", "select"),
			slog.String("role", string(role)),
			slog.String("label", logger.SanitizeLimit(label, 64)),
		)
		return notice(noticeNotFound)
	}

	switch entry.Ref.Kind {
	case content.RefQR:
		return e.enterScanning(p, sess, role)

	case content.RefSubmenu:
		return e.ChooseSubrole(p, chatID, submenuChoice(entry.Ref.Name))

	default:
		screen := Screen{
			Kind:  ScreenSection,
			Lead:  e.texts.Text(entry.Ref.Name),
			Image: entry.Ref.Image,
			Controls: []Control{
				{Label: labelBackToMenu, Action: Action{Kind: ActReturnToRoleMenu, Role: role}},
			},
		}
		return show(screen)
	}
}

// ReturnToRoleChoice is the unconditional admin escape hatch: clears the
// acting and scanning roles and re-renders the role-choice screen. The
// outstanding message ids survive so the renderer can retract the screen
// being left.
func (e *Engine) ReturnToRoleChoice(p *directory.Principal, chatID int64) Outcome {
	if !p.Authorized() || !p.PrimaryRole().Administrative() {
		return notice(noticeDenied)
	}
	e.sessions.Get(chatID).ClearActing()
	return show(e.adminRoleChoiceScreen(p))
}

// ReturnToRoleMenu leaves a section or scan screen for the effective role's
// main menu. The acting role, when set, survives; only scanning mode ends.
func (e *Engine) ReturnToRoleMenu(p *directory.Principal, chatID int64) Outcome {
	if !p.Authorized() {
		return notice(noticeNoAccess)
	}
	sess := e.sessions.Get(chatID)
	sess.ScanningRole = nil

	role := sess.EffectiveRole(p.PrimaryRole())
	if role.Administrative() {
		// An administrator without an acting role has no menu of its own.
		return show(e.adminRoleChoiceScreen(p))
	}
	acting := p.PrimaryRole().Administrative() && sess.ActingRole != nil
	return show(e.roleMenuScreen(role, acting))
}

// ScanAgain re-renders the scanning prompt. The scanning role is unchanged;
// the operation is idempotent.
func (e *Engine) ScanAgain(p *directory.Principal, chatID int64) Outcome {
	if !p.Authorized() {
		return notice(noticeNoAccess)
	}
	sess := e.sessions.Get(chatID)
	if !sess.Scanning() {
		return notice(noticeNotScanning)
	}
	return show(e.scanPromptScreen(p, *sess.ScanningRole))
}

// ScanningAllowed reports whether a submitted photo should be processed:
// only for authenticated principals with scanning mode active. Everything
// else is silently ignored.
func (e *Engine) ScanningAllowed(p *directory.Principal, chatID int64) bool {
	if !p.Authorized() {
		return false
	}
	sess, ok := e.sessions.Peek(chatID)
	return ok && sess.Scanning()
}

// ScanResult renders a lookup outcome (success text or failure message)
// with a "scan again" control re-entering scanning mode.
func (e *Engine) ScanResult(p *directory.Principal, chatID int64, text string) Outcome {
	sess := e.sessions.Get(chatID)
	scanRole := roles.Admin
	if sess.ScanningRole != nil {
		scanRole = *sess.ScanningRole
	}

	controls := []Control{
		{Label: labelScanAgain, Action: Action{Kind: ActScanAgain}},
	}
	if back, ok := e.scanBackControl(p, scanRole); ok {
		controls = append(controls, back)
	}
	return show(Screen{
		Kind:     ScreenScanResult,
		Lead:     text,
		Controls: controls,
	})
}

func (e *Engine) enterScanning(p *directory.Principal, sess *session.Session, scanRole roles.Role) Outcome {
	if !scanRole.Scannable() {
		return notice(noticeDenied)
	}
	sess.ScanningRole = &scanRole
	return show(e.scanPromptScreen(p, scanRole))
}

func (e *Engine) scanPromptScreen(p *directory.Principal, scanRole roles.Role) Screen {
	screen := Screen{
		Kind: ScreenScanPrompt,
		Lead: e.texts.Text(content.QRBlock),
	}
	if back, ok := e.scanBackControl(p, scanRole); ok {
		screen.Controls = []Control{back}
	}
	return screen
}

// scanBackControl picks the "return" target offered after a scan. Scanning
// as operator_rent offers none, except for an admin who always keeps the
// role-choice escape hatch.
func (e *Engine) scanBackControl(p *directory.Principal, scanRole roles.Role) (Control, bool) {
	switch scanRole {
	case roles.Admin:
		return Control{Label: labelBackToChoice, Action: Action{Kind: ActReturnToRoleChoice}}, true
	case roles.Operator, roles.Consultant:
		return Control{Label: labelBackToMenu, Action: Action{Kind: ActReturnToRoleMenu, Role: scanRole}}, true
	case roles.OperatorRent:
		if p.PrimaryRole().Administrative() {
			return Control{Label: labelBackToChoice, Action: Action{Kind: ActReturnToRoleChoice}}, true
		}
		return Control{}, false
	}
	return Control{}, false
}

// adminRoleChoiceScreen builds the role-choice screen from the registry's
// admin rows, so labels live in one place.
func (e *Engine) adminRoleChoiceScreen(p *directory.Principal) Screen {
	screen := Screen{
		Kind: ScreenAdminRoleChoice,
		Lead: e.texts.Welcome(p.FullName, p.PrimaryRole()),
	}
	for _, entry := range e.registry.EntriesFor(roles.Admin) {
		choice := ChoiceQRScanner
		if entry.Ref.Kind == content.RefSubmenu {
			choice = submenuChoice(entry.Ref.Name)
		}
		screen.Controls = append(screen.Controls, Control{
			Label:  entry.Label,
			Action: Action{Kind: ActChooseSubrole, Choice: choice},
		})
	}
	return screen
}

func (e *Engine) roleMenuScreen(role roles.Role, acting bool) Screen {
	screen := Screen{
		Kind: ScreenRoleMenu,
		Lead: fmt.Sprintf("📋 Меню роли: %s", role.Display()),
	}
	for _, entry := range e.registry.EntriesFor(role) {
		screen.Controls = append(screen.Controls, Control{
			Label:  entry.Label,
			Action: Action{Kind: ActSelectMenuItem, Label: entry.Label},
		})
	}
	if acting {
		screen.Controls = append(screen.Controls, Control{
			Label:  labelToRoleChoice,
			Action: Action{Kind: ActReturnToRoleChoice},
		})
	}
	return screen
}

func submenuChoice(marker string) Choice {
	switch marker {
	case "menu_operator":
		return ChoiceOperator
	case "menu_consultant":
		return ChoiceConsultant
	case "menu_guest":
		return ChoiceNone
	case "menu_rent":
		return ChoiceOperatorRent
	default:
		return Choice(marker)
	}
}
