package dialog

import (
	"strings"

	"github.com/Fideloin/carrier-bot/core/logger"
	"github.com/Fideloin/carrier-bot/core/telegram/callbacks"
	"github.com/Fideloin/carrier-bot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// myTrips replaces the current message with the sender's trip list.
func (h *Handlers) myTrips(c tele.Context) error {
	return h.renderMyTrips(c)
}

// deleteTrip removes the trip named in the button payload and re-renders
// the list in place. The store treats deleting an absent trip as a no-op,
// so pressing a stale button twice is harmless.
func (h *Handlers) deleteTrip(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	tripID := strings.TrimSpace(callbacks.CallbackPayload(c))
	if tripID == "" {
		return c.Edit(genericErrorText)
	}
	ctx := middleware.BuildContext(c)
	if err := h.store.Delete(ctx, sender.ID, tripID); err != nil {
		if sendErr := c.Send(storeUnavailableText); sendErr != nil {
			return sendErr
		}
		return err
	}
	logger.LogEvent(ctx, logger.SVCTrips, slog.LevelInfo, "trip.deleted",
		slog.String("trip_id", tripID),
	)
	return h.renderMyTrips(c)
}

func (h *Handlers) renderMyTrips(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	list, err := h.store.ListByOwner(middleware.BuildContext(c), sender.ID)
	if err != nil {
		if sendErr := c.Send(storeUnavailableText); sendErr != nil {
			return sendErr
		}
		return err
	}
	return c.Edit(formatMyTrips(list), myTripsKeyboard(list), tele.ModeHTML)
}
