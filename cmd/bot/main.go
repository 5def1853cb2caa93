// Command bot is the AWS Lambda entrypoint. Each invocation carries one
// Telegram webhook update in the API Gateway request body; the update is
// processed synchronously and the response is always 200 so Telegram does
// not re-deliver updates the bot failed on.
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"log/slog"

	"github.com/Fideloin/carrier-bot/core/config"
	"github.com/Fideloin/carrier-bot/core/logger"
	tg "github.com/Fideloin/carrier-bot/core/telegram"
	"github.com/Fideloin/carrier-bot/dialog"
	"github.com/Fideloin/carrier-bot/trips"

	tele "gopkg.in/telebot.v4"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if err := logger.InitLogger(cfg); err != nil {
		slog.Error("logger init failed", "err", err)
		os.Exit(1)
	}

	ctx := logger.Background()
	client, err := trips.NewDynamoClient(ctx, cfg.Dynamo.Region)
	if err != nil {
		logger.Error(ctx, "app", "dynamo.init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	store := trips.NewDynamoStore(client, trips.DynamoConfig{
		Table:        cfg.Dynamo.Table,
		BelarusIndex: cfg.Dynamo.BelarusIndex,
		SpainIndex:   cfg.Dynamo.SpainIndex,
	})

	bot, err := tg.NewBot(tg.BotOptions{
		Token:   cfg.Telegram.Token,
		URL:     cfg.Telegram.APIURL,
		Timeout: time.Duration(cfg.Telegram.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Error(ctx, "app", "bot.init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	reg := tg.NewRegistry()
	dialog.New(store).Register(reg)
	tg.Mount(bot, dialog.Routes(reg)...)

	if err := bot.SetCommands(reg.ListCommands(true)); err != nil {
		// The command menu is cosmetic; the bot still answers without it.
		logger.Warn(ctx, "app", "commands.publish_failed", slog.String("err", err.Error()))
	}

	lambda.Start(newWebhookHandler(bot))
}

// newWebhookHandler adapts the bot to the API Gateway proxy contract.
func newWebhookHandler(bot *tele.Bot) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	okResponse := events.APIGatewayProxyResponse{StatusCode: 200, Body: "{}"}

	return func(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, _ error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(ctx, "app", "webhook.panic", slog.Any("panic", r))
				resp = okResponse
			}
		}()

		upd, err := tg.ParseUpdate([]byte(req.Body))
		if err != nil {
			logger.Error(ctx, "app", "webhook.bad_update", slog.String("err", err.Error()))
			return okResponse, nil
		}
		bot.ProcessUpdate(upd)
		return okResponse, nil
	}
}
