package telegram

import (
	"encoding/json"
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// ParseUpdate decodes a webhook request body into a Telebot update.
func ParseUpdate(body []byte) (tele.Update, error) {
	var upd tele.Update
	if err := json.Unmarshal(body, &upd); err != nil {
		return tele.Update{}, fmt.Errorf("telegram: malformed update body: %w", err)
	}
	return upd, nil
}
