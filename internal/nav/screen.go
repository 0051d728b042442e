package nav

// ScreenKind names the distinct screens of the state machine.
type ScreenKind int

const (
	// ScreenPublic is the informational screen for unauthenticated users.
	ScreenPublic ScreenKind = iota
	// ScreenWelcome greets an authenticated principal.
	ScreenWelcome
	// ScreenAdminRoleChoice lists the roles an admin may browse as.
	ScreenAdminRoleChoice
	// ScreenRoleMenu is a role's main menu.
	ScreenRoleMenu
	// ScreenSection shows one content block.
	ScreenSection
	// ScreenScanPrompt awaits a QR photo.
	ScreenScanPrompt
	// ScreenScanResult shows a balance lookup outcome.
	ScreenScanResult
)

// Control is one tappable button: a display label plus the action it emits.
type Control struct {
	Label  string
	Action Action
}

// Screen is the rendered screen contract: at most one lead text, at most one
// image, and any number of controls. Image names a content asset; controls
// attach to the last message sent.
type Screen struct {
	Kind     ScreenKind
	Lead     string
	Image    string
	Controls []Control
}

// Outcome is the result of handling an action. A nil Screen means the
// current screen stays; Notice carries a transient user-visible note
// ("section not found", "access denied") shown without a screen change.
type Outcome struct {
	Screen *Screen
	Notice string
}

func notice(text string) Outcome {
	return Outcome{Notice: text}
}

func show(s Screen) Outcome {
	return Outcome{Screen: &s}
}
