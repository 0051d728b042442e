package middleware

import (
	"log/slog"
	"runtime/debug"

	"staffbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Recover catches panics in handlers so a single broken update cannot
// take the bot down.
func Recover(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}
