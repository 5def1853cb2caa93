package dialog

import (
	"fmt"

	"github.com/Fideloin/carrier-bot/core/telegram/keyboard"
	"github.com/Fideloin/carrier-bot/trips"
	tele "gopkg.in/telebot.v4"
)

// Callback action keys. Buttons carry these as the unique part of their
// callback data; the callback router dispatches on them.
const (
	cbStart         = "start"
	cbSaveTrip      = "save_trip"
	cbSearchTrips   = "search_trips"
	cbSearchBelarus = "search_belarus"
	cbSearchSpain   = "search_spain"
	cbMyTrips       = "my_trips"
	cbDeleteTrip    = "trip_del"
)

// Step tags carried in hidden prompt payloads. The text router dispatches
// replies on them.
const (
	stepBelarusDate = "trip_date_belarus"
	stepSpainDate   = "trip_date_spain"
	stepNote        = "trip_note"
	stepSearchMonth = "search_month"
)

func homeKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "Mои поездки", Unique: cbMyTrips},
		},
		[]keyboard.InlineBtn{
			{Text: "Хочу передать вещь", Unique: cbSearchTrips},
			{Text: "Планирую поездку", Unique: cbSaveTrip},
		},
	)
}

func saveSuccessKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "Mои поездки", Unique: cbMyTrips},
			{Text: "В начало", Unique: cbStart},
		},
	)
}

func incorrectDateKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "Попробовать снова", Unique: cbSaveTrip},
		},
		[]keyboard.InlineBtn{
			{Text: "Mои поездки", Unique: cbMyTrips},
			{Text: "В начало", Unique: cbStart},
		},
	)
}

func searchIntroKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "В Беларусь", Unique: cbSearchBelarus},
			{Text: "В Испанию", Unique: cbSearchSpain},
		},
	)
}

func searchEndKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "Попробовать снова", Unique: cbSearchTrips},
			{Text: "В начало", Unique: cbStart},
		},
	)
}

// myTripsKeyboard lists one delete button per trip, numbered the same way
// as the message text, with the home button last.
func myTripsKeyboard(list []trips.Trip) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(list)+1)
	for i, trip := range list {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("Удалить поездку %d.", i+1),
			Unique: cbDeleteTrip,
			Data:   trip.TripID,
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: "В начало", Unique: cbStart})
	return keyboard.InlineButtons(buttons)
}
