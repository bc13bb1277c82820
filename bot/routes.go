package bot

import (
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/stickerbot/core/config"
	coretelegram "github.com/m3rciful/stickerbot/core/telegram"
	"github.com/m3rciful/stickerbot/core/telegram/middleware"
)

// Routes binds the handlers to their telebot endpoints.
func (h *Handlers) Routes() []coretelegram.Route {
	return []coretelegram.Route{
		{Endpoint: "/start", Handler: h.onStart},
		{Endpoint: &tele.Btn{Unique: CallbackOrder}, Handler: h.onBeginOrder},
		{Endpoint: &tele.Btn{Unique: CallbackFormat}, Handler: h.onSelectFormat},
		{Endpoint: tele.OnText, Handler: h.onText},
		{Endpoint: tele.OnPhoto, Handler: h.onPhoto},
	}
}

// Middlewares builds the global middleware chain: panic recovery, optional
// per-user rate limiting, and update receipt logging.
func Middlewares(cfg *coreconfig.Config) []coretelegram.Middleware {
	mws := []coretelegram.Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}
	if cfg != nil && cfg.RateLimit.IntervalMS > 0 {
		mws = append(mws, coretelegram.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			}),
		})
	}
	mws = append(mws, coretelegram.Middleware{Name: "logger", Use: middleware.LoggerMiddleware})
	return mws
}
