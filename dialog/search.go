package dialog

import (
	"encoding/json"

	"github.com/Fideloin/carrier-bot/core/telegram/middleware"
	"github.com/Fideloin/carrier-bot/trips"

	tele "gopkg.in/telebot.v4"
)

// searchQuery is the payload of the month prompt: it pins the destination
// chosen by the button so the reply alone identifies the search.
type searchQuery struct {
	Destination trips.Destination `json:"destination"`
}

// searchIntro shows the destination choice, editing the message the button
// came from.
func (h *Handlers) searchIntro(c tele.Context) error {
	return c.Edit(searchIntroText, searchIntroKeyboard())
}

// askMonth builds the callback handler that prompts for a MM-YYYY month
// for the given destination.
func (h *Handlers) askMonth(dst trips.Destination, prompt string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return h.sendStepPrompt(c, prompt, stepSearchMonth, searchQuery{Destination: dst})
	}
}

func (h *Handlers) stepSearchMonth(c tele.Context, data json.RawMessage) error {
	var query searchQuery
	if err := json.Unmarshal(data, &query); err != nil || !query.Destination.Valid() {
		return c.Send(genericErrorText)
	}

	year, month, err := ParseMonth(c.Text())
	if err != nil {
		return c.Send(incorrectMonthText, searchEndKeyboard())
	}

	results, err := h.store.SearchByMonth(middleware.BuildContext(c), query.Destination, year, month)
	if err != nil {
		if sendErr := c.Send(storeUnavailableText, searchEndKeyboard()); sendErr != nil {
			return sendErr
		}
		return err
	}
	if len(results) == 0 {
		return c.Send(emptySearchText, searchEndKeyboard())
	}
	return c.Send(formatSearchResults(results), searchEndKeyboard(), tele.ModeHTML)
}
