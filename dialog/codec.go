// Package dialog implements the bot's conversation: trip registration,
// month search and trip listing. Multi-turn state travels inside the
// messages themselves, so the bot keeps no sessions between webhook
// invocations.
package dialog

import (
	"encoding/json"
	"net/url"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// The payload rides in an invisible HTML link appended to the prompt text:
// the anchor shows a zero-width character and its URL carries the
// percent-encoded data. Telegram preserves entities on the quoted message
// of a reply, so the payload comes back with the user's answer.
const (
	zeroWidth   = "‌"
	payloadBase = "https://t.me/?encoded="
)

// stepEnvelope wraps a step payload with the tag that selects its handler.
type stepEnvelope struct {
	Step string          `json:"step"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EncodeStep appends a hidden payload to text, tagging it with the step
// that handles the user's reply. The result must be sent with HTML parse
// mode, otherwise the link markup arrives as literal text.
func EncodeStep(text, step string, data any) (string, error) {
	env := stepEnvelope{Step: step}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return "", err
		}
		env.Data = raw
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	link := payloadBase + url.QueryEscape(string(payload))
	return text + `<a href="` + link + `">` + zeroWidth + `</a>`, nil
}

// DecodeStep extracts the step tag and payload from the message the user
// replied to. ok is false when the message carries no payload or it does
// not parse; the caller then treats the reply as free text.
func DecodeStep(m *tele.Message) (string, json.RawMessage, bool) {
	raw, ok := extractPayload(m)
	if !ok {
		return "", nil, false
	}
	var env stepEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Step == "" {
		return "", nil, false
	}
	return env.Step, env.Data, true
}

func extractPayload(m *tele.Message) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, entity := range m.Entities {
		if entity.Type != tele.EntityTextLink {
			continue
		}
		if encoded, found := strings.CutPrefix(entity.URL, payloadBase); found {
			return unescapePayload(encoded)
		}
	}
	// Clients that strip entities still deliver the raw text; the URL is
	// percent-encoded, so cutting at the first markup or space character
	// recovers it intact.
	if _, rest, found := strings.Cut(m.Text, payloadBase); found {
		end := strings.IndexAny(rest, "\"<> \n\t")
		if end >= 0 {
			rest = rest[:end]
		}
		return unescapePayload(rest)
	}
	return "", false
}

func unescapePayload(encoded string) (string, bool) {
	if encoded == "" {
		return "", false
	}
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return "", false
	}
	return decoded, true
}
