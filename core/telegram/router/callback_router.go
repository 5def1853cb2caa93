package router

import (
	"time"

	"github.com/Fideloin/carrier-bot/core/logger"
	tg "github.com/Fideloin/carrier-bot/core/telegram"
	"github.com/Fideloin/carrier-bot/core/telegram/callbacks"
	"github.com/Fideloin/carrier-bot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	// AlertText is shown to the user when the callback action is unknown.
	AlertText string
}

// CallbackRoute returns a handler that routes callbacks through the registry.
//
// The callback is acknowledged exactly once per event, after the owning
// handler has produced its response; without the acknowledgment the client
// keeps its loading indicator spinning. The error path and the
// unknown-action path acknowledge too (the latter with an alert).
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key := callbacks.CallbackKey(c)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		acked := false
		ack := func(resp ...*tele.CallbackResponse) {
			if acked {
				return
			}
			acked = true
			if err := c.Respond(resp...); err != nil {
				logHandlerSummary(c, name+".ack", start, err)
			}
		}
		// Handler panics unwind through here before the recover middleware,
		// so the client is never left with a stuck loading indicator.
		defer ack()

		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			// A key the bot never issued means the client and bot are out of
			// sync; that is an anomaly, not user error.
			logger.Error(middleware.BuildContext(c), "tg", "callback.unknown",
				slog.String("cb_key", logger.SanitizeLimit(key, 128)),
			)
			extras = append(extras, slog.String("reason", "not_found"))
			err := handleWithSummary(c, name, start, func() error {
				if fallback := reg.CallbackNotFound(); fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
			alert := opts.AlertText
			if alert == "" {
				alert = "Something went wrong"
			}
			ack(&tele.CallbackResponse{Text: alert, ShowAlert: true})
			return err
		}

		err := handleWithSummary(c, name, start, func() error {
			return cbHandler(c)
		}, extras...)
		ack()
		return err
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
