package telegram

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Fideloin/carrier-bot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultResponseTimeout   = 5 * time.Second
	defaultClientTimeout     = 10 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// BotOptions controls NewBot.
type BotOptions struct {
	Token string
	// APIURL overrides the Bot API base URL (tests, local API servers).
	URL     string
	Timeout time.Duration
	// Offline skips the getMe call on construction; used by tests.
	Offline bool
}

// NewBot constructs a Telebot bot for webhook-fed processing: no poller, and
// handlers run synchronously so a Lambda invocation does not return before
// its update is fully handled. Updates are injected via bot.ProcessUpdate.
func NewBot(opts BotOptions) (*tele.Bot, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	settings := tele.Settings{
		Token:       opts.Token,
		URL:         opts.URL,
		Offline:     opts.Offline,
		Synchronous: true,
		Client:      BuildHTTPClient(timeout),
		OnError: func(err error, c tele.Context) {
			attrs := []slog.Attr{
				slog.String("event", "handler.error"),
				slog.String("err", err.Error()),
			}
			if c != nil && c.Sender() != nil {
				attrs = append(attrs, slog.Int64("user_id", c.Sender().ID))
			}
			if logger.TG != nil {
				logger.TG.LogAttrs(logger.Background(), slog.LevelError, "handler error", attrs...)
			}
		},
	}

	bot, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	return bot, nil
}

// Mount binds routes on the bot, skipping incomplete entries.
func Mount(bot *tele.Bot, routes ...Route) {
	for _, route := range routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}
}

// BuildHTTPClient returns an HTTP client tuned for Bot API calls. The client
// timeout bounds every call; a timed-out call is a transport failure, never
// retried.
func BuildHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: defaultResponseTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
