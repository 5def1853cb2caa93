package dialog

import (
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func encodeForTest(t *testing.T, text, step string, data any) string {
	t.Helper()
	encoded, err := EncodeStep(text, step, data)
	if err != nil {
		t.Fatalf("EncodeStep: %v", err)
	}
	return encoded
}

// extractLink pulls the href URL out of the encoded HTML, the way Telegram
// would when converting the anchor into a text_link entity.
func extractLink(t *testing.T, encoded string) string {
	t.Helper()
	_, rest, found := strings.Cut(encoded, `<a href="`)
	if !found {
		t.Fatalf("no anchor in %q", encoded)
	}
	url, _, found := strings.Cut(rest, `"`)
	if !found {
		t.Fatalf("unterminated href in %q", encoded)
	}
	return url
}

func TestStepRoundTripViaEntity(t *testing.T) {
	payload := map[string]string{"to_belarus_date": "2024-03-17", "note": "мелкие вещи и документы"}
	encoded := encodeForTest(t, "Введите дату", "trip_date_spain", payload)

	if !strings.HasPrefix(encoded, "Введите дату") {
		t.Fatalf("prompt text mangled: %q", encoded)
	}
	if !strings.HasSuffix(encoded, ">"+zeroWidth+"</a>") {
		t.Fatalf("anchor must wrap only the zero-width character: %q", encoded)
	}

	// Telegram delivers the reply's quoted message with plain text and a
	// text_link entity instead of HTML.
	m := &tele.Message{
		Text: "Введите дату" + zeroWidth,
		Entities: []tele.MessageEntity{
			{Type: tele.EntityTextLink, URL: extractLink(t, encoded)},
		},
	}
	step, data, ok := DecodeStep(m)
	if !ok {
		t.Fatal("DecodeStep: payload not recovered")
	}
	if step != "trip_date_spain" {
		t.Fatalf("step = %q, want trip_date_spain", step)
	}
	if !strings.Contains(string(data), "2024-03-17") || !strings.Contains(string(data), "мелкие вещи и документы") {
		t.Fatalf("data = %s", data)
	}
}

func TestStepRoundTripViaRawText(t *testing.T) {
	encoded := encodeForTest(t, "Напишите заметку", "trip_note", nil)

	// A client that strips entities still shows the raw markup; the URL is
	// percent-encoded and therefore survives intact.
	m := &tele.Message{Text: encoded}
	step, data, ok := DecodeStep(m)
	if !ok {
		t.Fatal("DecodeStep: payload not recovered from raw text")
	}
	if step != "trip_note" {
		t.Fatalf("step = %q, want trip_note", step)
	}
	if len(data) != 0 {
		t.Fatalf("data = %s, want empty", data)
	}
}

func TestDecodeStepRejects(t *testing.T) {
	cases := []struct {
		name string
		m    *tele.Message
	}{
		{"nil message", nil},
		{"plain text", &tele.Message{Text: "просто сообщение"}},
		{"foreign link", &tele.Message{
			Text:     "см. ссылку",
			Entities: []tele.MessageEntity{{Type: tele.EntityTextLink, URL: "https://example.com/x"}},
		}},
		{"empty payload", &tele.Message{
			Text:     "x",
			Entities: []tele.MessageEntity{{Type: tele.EntityTextLink, URL: payloadBase}},
		}},
		{"not json", &tele.Message{
			Text:     "x",
			Entities: []tele.MessageEntity{{Type: tele.EntityTextLink, URL: payloadBase + "not-json"}},
		}},
	}
	for _, tc := range cases {
		if step, _, ok := DecodeStep(tc.m); ok {
			t.Fatalf("%s: DecodeStep accepted, step=%q", tc.name, step)
		}
	}
}
