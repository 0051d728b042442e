package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"staffbot/core/logger"
	"staffbot/internal/roles"
)

// Assets serves text blocks and images from the content directories.
// Failures render visible placeholders instead of failing the screen.
type Assets struct {
	textDir  string
	imageDir string
	images   map[string]string
}

// NewAssets scans the image directory once and returns the asset store.
func NewAssets(textDir, imageDir string) *Assets {
	a := &Assets{
		textDir:  textDir,
		imageDir: imageDir,
		images:   make(map[string]string),
	}
	a.preloadImages()
	return a
}

func (a *Assets) preloadImages() {
	entries, err := os.ReadDir(a.imageDir)
	if err != nil {
		logger.SVCContent.Warn("image directory unavailable",
			slog.String("event", "images.preload"),
			slog.String("dir", a.imageDir),
			slog.String("err", err.Error()),
		)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".png", ".jpg", ".jpeg", ".webp":
			a.images[name] = filepath.Join(a.imageDir, name)
		}
	}
	logger.SVCContent.Info("images preloaded",
		slog.String("event", "images.preload"),
		slog.Int("count", len(a.images)),
	)
}

// Text returns a text block by filename, or a visible placeholder when the
// block is missing.
func (a *Assets) Text(name string) string {
	path := filepath.Join(a.textDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.SVCContent.Warn("text block missing",
			slog.String("event", "text.load"),
			slog.String("name", name),
		)
		return fmt.Sprintf("⚠️ Блок текста *%s* не найден.", EscapeMarkdown(name))
	}
	return string(data)
}

// ImagePath returns the on-disk path of a preloaded image.
func (a *Assets) ImagePath(name string) (string, bool) {
	path, ok := a.images[name]
	if !ok {
		logger.SVCContent.Warn("image missing",
			slog.String("event", "image.lookup"),
			slog.String("name", name),
		)
	}
	return path, ok
}

// Welcome renders the greeting template with the principal's name and role.
func (a *Assets) Welcome(fullName string, role roles.Role) string {
	tpl := a.Text(WelcomeBlock)
	out := strings.ReplaceAll(tpl, "{ФИО}", EscapeMarkdown(fullName))
	out = strings.ReplaceAll(out, "{role}", EscapeMarkdown(role.Display()))
	return out
}

var markdownEscaper = regexp.MustCompile(`([\\*_{}\[\]()#+\-.!])`)

// EscapeMarkdown escapes Telegram Markdown special characters in
// interpolated values.
func EscapeMarkdown(s string) string {
	return markdownEscaper.ReplaceAllString(s, `\$1`)
}
