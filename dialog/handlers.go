package dialog

import (
	"github.com/google/uuid"

	tg "github.com/Fideloin/carrier-bot/core/telegram"
	"github.com/Fideloin/carrier-bot/core/telegram/commands"
	"github.com/Fideloin/carrier-bot/core/telegram/keyboard"
	"github.com/Fideloin/carrier-bot/core/telegram/router"
	"github.com/Fideloin/carrier-bot/trips"

	tele "gopkg.in/telebot.v4"
)

// Handlers binds the conversation to a trip store.
type Handlers struct {
	store trips.Store
	newID func() string
}

// New creates the conversation handlers over the given store.
func New(store trips.Store) *Handlers {
	return &Handlers{
		store: store,
		newID: uuid.NewString,
	}
}

// Register wires every command, callback action and reply step into the
// registry.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{Handler: h.start, Description: "Начать работу с ботом"})
	reg.RegisterCommand("/about", commands.Command{Handler: h.about, Description: "О боте, приватности и хранимых данных"})
	reg.RegisterCommand("/help", commands.Command{Handler: h.help, Description: "Список команд"})

	reg.RegisterCallback(cbStart, h.home)
	reg.RegisterCallback(cbSaveTrip, h.beginSaveTrip)
	reg.RegisterCallback(cbSearchTrips, h.searchIntro)
	reg.RegisterCallback(cbSearchBelarus, h.askMonth(trips.DestinationBelarus, searchBelarusMonthText))
	reg.RegisterCallback(cbSearchSpain, h.askMonth(trips.DestinationSpain, searchSpainMonthText))
	reg.RegisterCallback(cbMyTrips, h.myTrips)
	reg.RegisterCallback(cbDeleteTrip, h.deleteTrip)

	reg.RegisterStep(stepBelarusDate, h.stepBelarusDate)
	reg.RegisterStep(stepSpainDate, h.stepSpainDate)
	reg.RegisterStep(stepNote, h.stepNote)
	reg.RegisterStep(stepSearchMonth, h.stepSearchMonth)

	reg.SetTextFallback(h.unknownText)
}

// Routes returns the text and callback routes for the conversation.
func Routes(reg *tg.Registry) []tg.Route {
	return []tg.Route{
		router.TextRoute(reg, router.TextOptions{DecodeStep: DecodeStep}),
		router.CallbackRoute(reg, router.CallbackOptions{AlertText: unknownActionAlertText}),
	}
}

func (h *Handlers) start(c tele.Context) error {
	return c.Send(greetingText, homeKeyboard())
}

// home is the "В начало" button: same content as /start, but edits the
// message the button was attached to instead of sending a new one.
func (h *Handlers) home(c tele.Context) error {
	return c.Edit(greetingText, homeKeyboard())
}

func (h *Handlers) about(c tele.Context) error {
	if err := c.Send(aboutText); err != nil {
		return err
	}
	return c.Send(aboutFollowupText)
}

func (h *Handlers) help(c tele.Context) error {
	return c.Send(helpText)
}

// unknownText answers free text that is neither a command nor a reply to a
// prompt carrying a payload.
func (h *Handlers) unknownText(c tele.Context) error {
	return c.Send(genericErrorText)
}

// sendStepPrompt sends a force-reply prompt with the hidden step payload.
func (h *Handlers) sendStepPrompt(c tele.Context, text, step string, data any) error {
	encoded, err := EncodeStep(text, step, data)
	if err != nil {
		return err
	}
	return c.Send(encoded, keyboard.ForceReply(), tele.ModeHTML)
}
