package telegram

import (
	"context"
	"log/slog"

	"staffbot/core/logger"
	coretg "staffbot/core/telegram"
	tghelpers "staffbot/core/telegram/helpers"
	"staffbot/internal/balance"
	"staffbot/internal/directory"
	"staffbot/internal/nav"

	tele "gopkg.in/telebot.v4"
)

// Handlers wires bot updates to the navigation engine.
type Handlers struct {
	engine   *nav.Engine
	resolver directory.Resolver
	renderer *Renderer
	balance  *balance.Client
}

// NewHandlers builds the update handlers.
func NewHandlers(engine *nav.Engine, resolver directory.Resolver, renderer *Renderer, balanceClient *balance.Client) *Handlers {
	return &Handlers{
		engine:   engine,
		resolver: resolver,
		renderer: renderer,
		balance:  balanceClient,
	}
}

// Routes returns the bot route table.
func (h *Handlers) Routes() []coretg.Route {
	return []coretg.Route{
		{Endpoint: "/start", Handler: h.onStart},
		{Endpoint: tele.OnCallback, Handler: h.onCallback},
		{Endpoint: tele.OnPhoto, Handler: h.onPhoto},
	}
}

// resolve looks the sender up in the staff directory. A missing username
// or an unknown handle yields nil, which every operation treats as an
// unauthenticated principal. Directory errors degrade the same way.
func (h *Handlers) resolve(ctx context.Context, c tele.Context) *directory.Principal {
	sender := c.Sender()
	if sender == nil || sender.Username == "" {
		return nil
	}
	p, err := h.resolver.Resolve(ctx, sender.Username)
	if err != nil {
		logger.Error(ctx, "directory", "resolve.failed",
			slog.String("handle", logger.SanitizeLimit(sender.Username, 64)),
			slog.String("err", err.Error()),
		)
		return nil
	}
	return p
}

func (h *Handlers) onStart(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	p := h.resolve(ctx, c)
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	return h.renderer.Render(c, h.engine.Enter(p, chat.ID))
}

func (h *Handlers) onCallback(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "callback")
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	action, ok := DecodeCallback(c.Callback())
	if !ok {
		logger.Warn(ctx, "tg", "callback.unknown",
			slog.String("data", logger.SanitizeLimit(c.Callback().Data, 128)),
		)
		return c.Respond()
	}

	p := h.resolve(ctx, c)
	return h.renderer.Render(c, h.dispatch(p, chat.ID, action))
}

// dispatch routes a decoded action to the engine operation it names.
func (h *Handlers) dispatch(p *directory.Principal, chatID int64, action nav.Action) nav.Outcome {
	switch action.Kind {
	case nav.ActBeginWork:
		return h.engine.BeginWork(p, chatID)
	case nav.ActChooseSubrole:
		return h.engine.ChooseSubrole(p, chatID, action.Choice)
	case nav.ActSelectMenuItem:
		return h.engine.SelectMenuItem(p, chatID, action.Label)
	case nav.ActReturnToRoleChoice:
		return h.engine.ReturnToRoleChoice(p, chatID)
	case nav.ActReturnToRoleMenu:
		return h.engine.ReturnToRoleMenu(p, chatID)
	case nav.ActScanAgain:
		return h.engine.ScanAgain(p, chatID)
	}
	return nav.Outcome{}
}
