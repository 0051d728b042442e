package telegram

import (
	"log/slog"
	"strconv"

	"staffbot/core/logger"
	tghelpers "staffbot/core/telegram/helpers"
	"staffbot/core/telegram/keyboard"
	tgsender "staffbot/core/telegram/sender"
	"staffbot/internal/content"
	"staffbot/internal/nav"
	"staffbot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// Renderer turns navigation outcomes into Telegram messages. Each screen
// replaces the previous one: old messages are retracted best-effort, then
// the new screen is sent and its message ids recorded.
type Renderer struct {
	sessions   *session.Store
	assets     *content.Assets
	dispatcher *tgsender.Dispatcher
}

// NewRenderer wires the renderer to the session store and asset catalog.
// The dispatcher may be nil; retraction then happens inline.
func NewRenderer(sessions *session.Store, assets *content.Assets, dispatcher *tgsender.Dispatcher) *Renderer {
	return &Renderer{sessions: sessions, assets: assets, dispatcher: dispatcher}
}

// SetDispatcher wires the async sender once the bot runtime exists.
func (r *Renderer) SetDispatcher(d *tgsender.Dispatcher) {
	r.dispatcher = d
}

// Track adds message ids to the chat's outstanding set so they are
// retracted together with the next screen change.
func (r *Renderer) Track(chatID int64, ids ...int) {
	sess := r.sessions.Get(chatID)
	sess.Outstanding = append(sess.Outstanding, ids...)
}

// Render shows an outcome to the user. Notices answer the callback when
// there is one and otherwise become a plain message; screens replace the
// currently displayed one.
func (r *Renderer) Render(c tele.Context, out nav.Outcome) error {
	if out.Notice != "" {
		if cb := c.Callback(); cb != nil {
			return c.Respond(&tele.CallbackResponse{Text: out.Notice, ShowAlert: true})
		}
		return c.Send(out.Notice)
	}
	if out.Screen == nil {
		return nil
	}
	return r.renderScreen(c, out.Screen)
}

func (r *Renderer) renderScreen(c tele.Context, screen *nav.Screen) error {
	if cb := c.Callback(); cb != nil {
		// Ack before sending so the button spinner stops promptly.
		_ = c.Respond()
	}

	chat := c.Chat()
	if chat == nil {
		return nil
	}
	r.retract(c, chat)

	var markup *tele.ReplyMarkup
	if len(screen.Controls) > 0 {
		buttons := make([]keyboard.InlineBtn, 0, len(screen.Controls))
		for _, ctl := range screen.Controls {
			buttons = append(buttons, encodeControl(ctl))
		}
		markup = keyboard.InlineButtons(buttons)
	}

	var imagePath string
	if screen.Image != "" {
		if path, ok := r.assets.ImagePath(screen.Image); ok {
			imagePath = path
		}
	}

	sent := make([]int, 0, 2)
	var lead *tele.Message
	for _, out := range screenMessages(screen, imagePath) {
		opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
		if out.markup && markup != nil {
			opts.ReplyMarkup = markup
		}

		if out.photoPath != "" {
			photo := &tele.Photo{File: tele.FromDisk(out.photoPath)}
			msg, err := c.Bot().Send(chat, photo, opts)
			if err != nil {
				ctx := tghelpers.BuildContext(c)
				logger.Warn(ctx, "tg", "image.send_failed",
					slog.String("image", screen.Image),
					slog.String("err", err.Error()),
				)
				// The picture carried the keyboard; move it to the lead text
				// so the screen stays navigable.
				if out.markup && markup != nil && lead != nil {
					_, _ = c.Bot().EditReplyMarkup(lead, markup)
				}
				continue
			}
			sent = append(sent, msg.ID)
			continue
		}

		msg, err := c.Bot().Send(chat, out.text, opts)
		if err != nil {
			return err
		}
		lead = msg
		sent = append(sent, msg.ID)
	}

	sess := r.sessions.Get(chat.ID)
	sess.Outstanding = sent
	return nil
}

// outgoing is one message of a screen, in send order.
type outgoing struct {
	photoPath string
	text      string
	markup    bool
}

// screenMessages lays a screen out as messages. The inline keyboard rides on
// the last message: the picture for sections that carry one, the lead text
// otherwise.
func screenMessages(screen *nav.Screen, imagePath string) []outgoing {
	if imagePath == "" {
		return []outgoing{{text: screen.Lead, markup: true}}
	}
	return []outgoing{
		{text: screen.Lead},
		{photoPath: imagePath, markup: true},
	}
}

// retract deletes the previously displayed screen. Failures are ignored:
// the message may be gone already or too old to delete.
func (r *Renderer) retract(c tele.Context, chat *tele.Chat) {
	sess, ok := r.sessions.Peek(chat.ID)
	if !ok || len(sess.Outstanding) == 0 {
		return
	}
	outstanding := sess.Outstanding
	sess.Outstanding = nil

	bot := c.Bot()
	ctx := tghelpers.BuildContext(c)
	for _, id := range outstanding {
		stored := tele.StoredMessage{MessageID: strconv.Itoa(id), ChatID: chat.ID}
		del := func() error { return bot.Delete(stored) }
		if r.dispatcher == nil {
			_ = del()
			continue
		}
		if err := r.dispatcher.EnqueueOnce(ctx, "message.retract", del); err != nil {
			_ = del()
		}
	}
}
