package helpers

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// SplitCallback normalizes the two shapes telebot delivers callback data in:
// a parsed Unique+Data pair, or raw "\f<unique>|<payload>" data.
func SplitCallback(cb *tele.Callback) (key, payload string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	key = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		return key, parts[1]
	}
	return key, ""
}
