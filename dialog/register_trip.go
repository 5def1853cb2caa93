package dialog

import (
	"encoding/json"

	"github.com/Fideloin/carrier-bot/core/logger"
	"github.com/Fideloin/carrier-bot/core/telegram/middleware"
	"github.com/Fideloin/carrier-bot/trips"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// tripDraft is the partial record carried between registration prompts.
type tripDraft struct {
	ToBelarusDate string `json:"to_belarus_date,omitempty"`
	ToSpainDate   string `json:"to_spain_date,omitempty"`
}

// beginSaveTrip starts registration by asking for the Belarus-bound date.
// The prompt carries an empty draft; each answered step re-issues the next
// prompt with the draft extended, so no state lives on the server.
func (h *Handlers) beginSaveTrip(c tele.Context) error {
	return h.sendStepPrompt(c, saveTripBelarusDateText, stepBelarusDate, tripDraft{})
}

func (h *Handlers) stepBelarusDate(c tele.Context, _ json.RawMessage) error {
	date, err := ParseTripDate(c.Text())
	if err != nil {
		return c.Send(incorrectDateText, incorrectDateKeyboard())
	}
	return h.sendStepPrompt(c, saveTripSpainDateText, stepSpainDate, tripDraft{ToBelarusDate: date})
}

func (h *Handlers) stepSpainDate(c tele.Context, data json.RawMessage) error {
	var draft tripDraft
	if err := json.Unmarshal(data, &draft); err != nil || draft.ToBelarusDate == "" {
		return c.Send(genericErrorText)
	}
	date, err := ParseTripDate(c.Text())
	if err != nil {
		return c.Send(incorrectDateText, incorrectDateKeyboard())
	}
	draft.ToSpainDate = date
	return h.sendStepPrompt(c, saveTripNoteText, stepNote, draft)
}

func (h *Handlers) stepNote(c tele.Context, data json.RawMessage) error {
	var draft tripDraft
	if err := json.Unmarshal(data, &draft); err != nil || draft.ToBelarusDate == "" || draft.ToSpainDate == "" {
		return c.Send(genericErrorText)
	}
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	trip := trips.Trip{
		OwnerID:       sender.ID,
		TripID:        h.newID(),
		FirstName:     sender.FirstName,
		ToBelarusDate: draft.ToBelarusDate,
		ToSpainDate:   draft.ToSpainDate,
		Note:          c.Text(),
	}
	ctx := middleware.BuildContext(c)
	if err := h.store.Save(ctx, trip); err != nil {
		if sendErr := c.Send(storeUnavailableText); sendErr != nil {
			return sendErr
		}
		return err
	}
	logger.LogEvent(ctx, logger.SVCTrips, slog.LevelInfo, "trip.saved",
		slog.String("trip_id", trip.TripID),
	)
	return c.Send(saveSuccessText, saveSuccessKeyboard())
}
