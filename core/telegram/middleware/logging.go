package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/stickerbot/core/logger"
	tghelpers "github.com/m3rciful/stickerbot/core/telegram/helpers"
)

// LoggerMiddleware logs a single receipt line per update and stores the
// request-scoped context for downstream handlers.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)

		ctx := logger.WithRID(nil, rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		tghelpers.StoreContext(c, ctx)

		attrs := []slog.Attr{
			slog.String("rid", rid),
			slog.Int("update_id", upd.ID),
		}
		if userID != 0 {
			attrs = append(attrs, slog.Int64("user_id", userID))
			if user.Username != "" {
				attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
			}
		}
		switch {
		case upd.Callback != nil:
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(upd.Callback.Data, 256)))
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
		}
		logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", attrs...)

		return next(c)
	}
}
