package telegram

import (
	"encoding/json"
	"testing"

	"github.com/Fideloin/carrier-bot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()

	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "start"})
	reg.RegisterCommand("start", commands.Command{Handler: noopHandler, Description: "no slash"})
	reg.RegisterCommand("/nodesc", commands.Command{Handler: noopHandler})
	reg.RegisterCommand("/nohandler", commands.Command{Description: "x"})
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "duplicate"})

	if len(reg.Commands()) != 1 {
		t.Fatalf("registered %d commands, want 1", len(reg.Commands()))
	}
	if reg.Commands()["/start"].Description != "start" {
		t.Fatal("duplicate registration must not replace the original")
	}
}

func TestLookupCommandCaseInsensitive(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "start"})

	for _, input := range []string{"/start", "/START", " /Start ", "start"} {
		key, _, ok := reg.LookupCommand(input)
		if !ok {
			t.Fatalf("LookupCommand(%q) not found", input)
		}
		if key != "/start" {
			t.Fatalf("LookupCommand(%q) key = %q, want /start", input, key)
		}
	}
	if _, _, ok := reg.LookupCommand("/missing"); ok {
		t.Fatal("LookupCommand found an unregistered command")
	}
}

func TestListCommandsHidesHidden(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "start"})
	reg.RegisterCommand("/debug", commands.Command{Handler: noopHandler, Description: "debug", Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/start" {
		t.Fatalf("visible commands = %+v", visible)
	}
	if all := reg.ListCommands(false); len(all) != 2 {
		t.Fatalf("all commands = %+v", all)
	}
}

func TestRegisterCallbackDuplicate(t *testing.T) {
	reg := NewRegistry()

	if err := reg.RegisterCallback("save_trip", noopHandler); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if err := reg.RegisterCallback("save_trip", noopHandler); err == nil {
		t.Fatal("duplicate callback registration must fail")
	}
	if err := reg.RegisterCallback("", noopHandler); err == nil {
		t.Fatal("empty key must fail")
	}
	if _, ok := reg.GetCallback("save_trip"); !ok {
		t.Fatal("registered callback not found")
	}
	if _, ok := reg.GetCallback("missing"); ok {
		t.Fatal("unregistered callback found")
	}
}

func TestRegisterStep(t *testing.T) {
	reg := NewRegistry()

	step := func(tele.Context, json.RawMessage) error { return nil }
	if err := reg.RegisterStep("trip_note", step); err != nil {
		t.Fatalf("RegisterStep: %v", err)
	}
	if err := reg.RegisterStep("trip_note", step); err == nil {
		t.Fatal("duplicate step registration must fail")
	}
	if err := reg.RegisterStep("", step); err == nil {
		t.Fatal("empty step tag must fail")
	}
	if _, ok := reg.GetStep("trip_note"); !ok {
		t.Fatal("registered step not found")
	}
	if got := reg.ListSteps(); len(got) != 1 || got[0] != "trip_note" {
		t.Fatalf("ListSteps = %v", got)
	}
}
