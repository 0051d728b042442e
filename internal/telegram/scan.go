package telegram

import (
	"context"
	"io"
	"log/slog"
	"time"

	"staffbot/core/logger"
	tghelpers "staffbot/core/telegram/helpers"
	"staffbot/internal/balance"

	tele "gopkg.in/telebot.v4"
)

const (
	msgScanInProgress  = "📸 Распознаю QR-код..."
	msgQRNotRecognized = "⚠️ Не удалось распознать QR-код. Попробуйте ещё раз."
	msgBalanceFailed   = "⚠️ Не удалось получить баланс. Попробуйте позже."
)

// onPhoto runs the QR pipeline: download the largest photo variant, decode
// the code, extract the card number and look up the balance. A photo sent
// outside scanning mode is silently ignored.
func (h *Handlers) onPhoto(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "photo")
	p := h.resolve(ctx, c)

	chat := c.Chat()
	if chat == nil {
		return nil
	}
	if !h.engine.ScanningAllowed(p, chat.ID) {
		logger.Debug(ctx, "tg", "photo.ignored",
			slog.Bool("authorized", p.Authorized()),
		)
		return nil
	}

	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	photo := msg.Photo

	// The submitted photo and the progress note disappear with the next
	// screen, like any other outstanding message.
	h.renderer.Track(chat.ID, msg.ID)
	if progress, err := c.Bot().Send(chat, msgScanInProgress); err == nil {
		h.renderer.Track(chat.ID, progress.ID)
	}

	start := time.Now()
	text, err := h.scanPhoto(c, photo)
	if err != nil {
		logger.Info(ctx, "balance", "scan.failed",
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
		return h.renderer.Render(c, h.engine.ScanResult(p, chat.ID, msgQRNotRecognized))
	}

	cardNumber, err := balance.ExtractCardNumber(text)
	if err != nil {
		logger.Info(ctx, "balance", "scan.no_card",
			slog.String("payload", logger.SanitizeLimit(text, 128)),
		)
		return h.renderer.Render(c, h.engine.ScanResult(p, chat.ID, msgQRNotRecognized))
	}

	res, err := h.lookupBalance(ctx, cardNumber)
	if err != nil {
		logger.Warn(ctx, "balance", "lookup.failed",
			slog.String("card", cardNumber),
			slog.String("err", err.Error()),
		)
		return h.renderer.Render(c, h.engine.ScanResult(p, chat.ID, msgBalanceFailed))
	}

	logger.Info(ctx, "balance", "lookup.success",
		slog.String("card", cardNumber),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return h.renderer.Render(c, h.engine.ScanResult(p, chat.ID, balance.Format(cardNumber, res)))
}

// scanPhoto fetches the photo bytes from Telegram and decodes the QR code.
func (h *Handlers) scanPhoto(c tele.Context, photo *tele.Photo) (string, error) {
	rc, err := c.Bot().File(&photo.File)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return balance.Scan(data)
}

func (h *Handlers) lookupBalance(ctx context.Context, cardNumber string) (*balance.Result, error) {
	return h.balance.Lookup(ctx, cardNumber)
}
