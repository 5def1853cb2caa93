package router

import (
	"encoding/json"
	"time"

	"github.com/Fideloin/carrier-bot/core/logger"
	tg "github.com/Fideloin/carrier-bot/core/telegram"
	"github.com/Fideloin/carrier-bot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// StepDecoder recovers the dialogue step tag and its data from the message
// the user replied to. ok is false when the message carries no payload (or
// the platform stripped it), in which case the reply cannot be routed to a
// step handler.
type StepDecoder func(replyTo *tele.Message) (step string, data json.RawMessage, ok bool)

// TextOptions controls reply-step decoding and fallback behaviour for text updates.
type TextOptions struct {
	DecodeStep  StepDecoder
	UnknownText tele.HandlerFunc
}

// TextRoute builds the handler for text updates.
//
// Classification order: command (case-insensitive), reply to a bot prompt
// (dispatched on the step tag decoded from the prompt's hidden payload),
// fallback. There is no server-side session; a reply whose payload is
// missing or unknown falls through to the fallback.
func TextRoute(reg *tg.Registry, opts TextOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, func() error {
					return cmd.Handler(c)
				})
			}
		}

		if m := c.Message(); m != nil && m.ReplyTo != nil && opts.DecodeStep != nil {
			if step, data, ok := opts.DecodeStep(m.ReplyTo); ok {
				if reg != nil {
					if h, found := reg.GetStep(step); found {
						name := "step." + normalizeHandlerName(step)
						return handleWithSummary(c, name, start, func() error {
							return h(c, data)
						}, slog.String("step", step))
					}
				}
				// A step tag the bot cannot dispatch means the prompt came
				// from a newer or older build of the bot.
				logger.Error(middleware.BuildContext(c), "tg", "step.unknown",
					slog.String("step", logger.SanitizeLimit(step, 64)),
				)
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
