package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"staffbot/core/logger"
	"staffbot/internal/roles"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.Config{Level: "error"})
	os.Exit(m.Run())
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTextReadsBlock(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "payment.md", "💰 Оплата картой гостя.")

	a := NewAssets(dir, t.TempDir())
	if got := a.Text("payment.md"); got != "💰 Оплата картой гостя." {
		t.Errorf("text = %q", got)
	}
}

func TestTextMissingRendersPlaceholder(t *testing.T) {
	a := NewAssets(t.TempDir(), t.TempDir())
	got := a.Text("ghost.md")
	if !strings.Contains(got, "не найден") {
		t.Errorf("missing block must render a placeholder, got %q", got)
	}
	if !strings.Contains(got, `ghost\.md`) {
		t.Errorf("placeholder must escape the name, got %q", got)
	}
}

func TestImagePath(t *testing.T) {
	imgDir := t.TempDir()
	writeFile(t, imgDir, "logo.png", "fake")
	writeFile(t, imgDir, "notes.txt", "skip me")

	a := NewAssets(t.TempDir(), imgDir)

	path, ok := a.ImagePath("logo.png")
	if !ok || path != filepath.Join(imgDir, "logo.png") {
		t.Errorf("logo lookup = %q, %v", path, ok)
	}
	if _, ok := a.ImagePath("notes.txt"); ok {
		t.Error("non-image files must not be preloaded")
	}
	if _, ok := a.ImagePath("missing.png"); ok {
		t.Error("unknown image must miss")
	}
}

func TestWelcomeSubstitution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, WelcomeBlock, "Привет, {ФИО}! Роль: {role}.")

	a := NewAssets(dir, t.TempDir())
	got := a.Welcome("Иванов И.И.", roles.Operator)

	if !strings.Contains(got, `Иванов И\.И\.`) {
		t.Errorf("name must be substituted and escaped: %q", got)
	}
	if !strings.Contains(got, "Оператор") {
		t.Errorf("role display name must be substituted: %q", got)
	}
	if strings.Contains(got, "{ФИО}") || strings.Contains(got, "{role}") {
		t.Errorf("placeholders left in output: %q", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	got := EscapeMarkdown("a_b*c[d]")
	if got != `a\_b\*c\[d\]` {
		t.Errorf("escaped = %q", got)
	}
	if EscapeMarkdown("обычный текст") != "обычный текст" {
		t.Error("plain text must pass through unchanged")
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(DefaultEntries())

	entry, ok := r.Lookup(roles.Operator, "🔍 QR-сканер")
	if !ok || entry.Ref.Kind != RefQR {
		t.Errorf("operator QR entry = %+v, %v", entry, ok)
	}

	if _, ok := r.Lookup(roles.Operator, "нет такого"); ok {
		t.Error("unknown label must miss")
	}
	// Labels never leak across roles.
	if _, ok := r.Lookup(roles.Guest, "📋 Обязанности"); ok {
		t.Error("operator label must not resolve for guest")
	}
}

func TestRegistryEntriesFor(t *testing.T) {
	r := NewRegistry(DefaultEntries())

	if n := len(r.EntriesFor(roles.Operator)); n != 7 {
		t.Errorf("operator menu has %d entries", n)
	}
	if n := len(r.EntriesFor(roles.OperatorRent)); n != 0 {
		t.Errorf("operator_rent is scan-only, got %d entries", n)
	}
	for _, e := range r.EntriesFor(roles.Admin) {
		if e.Ref.Kind == RefText {
			t.Errorf("admin menu must hold submenu and QR markers only, found text entry %q", e.Label)
		}
	}
}
