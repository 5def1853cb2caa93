package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tg "github.com/Fideloin/carrier-bot/core/telegram"
	"github.com/Fideloin/carrier-bot/trips"

	tele "gopkg.in/telebot.v4"
)

// fakeAPI stands in for the Bot API server: it records every method call
// and answers with a minimal success body.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

type apiCall struct {
	method string
	params map[string]any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	params := map[string]any{}
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, &params)
	}

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, params: params})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "sendMessage", "editMessageText":
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":99,"chat":{"id":1,"type":"private"}}}`)
	default:
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}
}

func (f *fakeAPI) callsTo(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, call := range f.calls {
		if call.method == method {
			out = append(out, call)
		}
	}
	return out
}

func (f *fakeAPI) lastCall(t *testing.T, method string) apiCall {
	t.Helper()
	calls := f.callsTo(method)
	if len(calls) == 0 {
		t.Fatalf("no %s calls recorded", method)
	}
	return calls[len(calls)-1]
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

func param(c apiCall, key string) string {
	if v, ok := c.params[key].(string); ok {
		return v
	}
	return ""
}

// flakyStore passes through to the wrapped store until err is set, then
// fails every call with it.
type flakyStore struct {
	trips.Store
	err error
}

func (s *flakyStore) Save(ctx context.Context, trip trips.Trip) error {
	if s.err != nil {
		return s.err
	}
	return s.Store.Save(ctx, trip)
}

func (s *flakyStore) Delete(ctx context.Context, ownerID int64, tripID string) error {
	if s.err != nil {
		return s.err
	}
	return s.Store.Delete(ctx, ownerID, tripID)
}

func (s *flakyStore) ListByOwner(ctx context.Context, ownerID int64) ([]trips.Trip, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.Store.ListByOwner(ctx, ownerID)
}

func (s *flakyStore) SearchByMonth(ctx context.Context, dst trips.Destination, year, month int) ([]trips.Trip, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.Store.SearchByMonth(ctx, dst, year, month)
}

type testEnv struct {
	t     *testing.T
	bot   *tele.Bot
	api   *fakeAPI
	store *trips.MemStore
	flaky *flakyStore
	h     *Handlers

	updateSeq int
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	bot, err := tg.NewBot(tg.BotOptions{Token: "test-token", URL: srv.URL, Offline: true})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}

	store := trips.NewMemStore()
	flaky := &flakyStore{Store: store}
	h := New(flaky)
	seq := 0
	h.newID = func() string {
		seq++
		return fmt.Sprintf("trip-%d", seq)
	}

	reg := tg.NewRegistry()
	h.Register(reg)
	tg.Mount(bot, Routes(reg)...)

	return &testEnv{t: t, bot: bot, api: api, store: store, flaky: flaky, h: h}
}

func (e *testEnv) sendText(userID int64, firstName, text string, replyTo *tele.Message) {
	e.updateSeq++
	e.bot.ProcessUpdate(tele.Update{
		ID: e.updateSeq,
		Message: &tele.Message{
			ID:      1000 + e.updateSeq,
			Text:    text,
			Sender:  &tele.User{ID: userID, FirstName: firstName},
			Chat:    &tele.Chat{ID: userID, Type: tele.ChatPrivate},
			ReplyTo: replyTo,
		},
	})
}

func (e *testEnv) pressButton(userID int64, data string) {
	e.updateSeq++
	e.bot.ProcessUpdate(tele.Update{
		ID: e.updateSeq,
		Callback: &tele.Callback{
			ID:     fmt.Sprintf("cbq-%d", e.updateSeq),
			Sender: &tele.User{ID: userID, FirstName: "Анна"},
			Data:   "\f" + data,
			Message: &tele.Message{
				ID:   500 + e.updateSeq,
				Chat: &tele.Chat{ID: userID, Type: tele.ChatPrivate},
			},
		},
	})
}

// lastPrompt rebuilds the message the user replies to from the last
// sendMessage call. The fake API stores the raw HTML, which exercises the
// raw-text payload fallback of DecodeStep.
func (e *testEnv) lastPrompt() *tele.Message {
	e.t.Helper()
	call := e.api.lastCall(e.t, "sendMessage")
	return &tele.Message{ID: 77, Text: param(call, "text")}
}

func (e *testEnv) requireAckedOnce() {
	e.t.Helper()
	acks := e.api.callsTo("answerCallbackQuery")
	if len(acks) != 1 {
		e.t.Fatalf("callback acknowledged %d times, want exactly once", len(acks))
	}
}

func TestStartCommand(t *testing.T) {
	env := newEnv(t)
	env.sendText(7, "Анна", "/start", nil)

	call := env.api.lastCall(t, "sendMessage")
	if got := param(call, "text"); got != greetingText {
		t.Fatalf("greeting text = %q", got)
	}
	markup := param(call, "reply_markup")
	for _, label := range []string{"Планирую поездку", "Хочу передать вещь", "Mои поездки"} {
		if !strings.Contains(markup, label) {
			t.Fatalf("home keyboard missing %q: %s", label, markup)
		}
	}
}

func TestCommandCaseInsensitive(t *testing.T) {
	env := newEnv(t)
	env.sendText(7, "Анна", "/START", nil)

	if got := param(env.api.lastCall(t, "sendMessage"), "text"); got != greetingText {
		t.Fatalf("text = %q, want greeting", got)
	}
}

func TestAboutSendsTwoMessages(t *testing.T) {
	env := newEnv(t)
	env.sendText(7, "Анна", "/about", nil)

	sent := env.api.callsTo("sendMessage")
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sent))
	}
	if param(sent[0], "text") != aboutText || param(sent[1], "text") != aboutFollowupText {
		t.Fatal("about messages out of order")
	}
}

func TestUnknownTextFallsBack(t *testing.T) {
	env := newEnv(t)
	env.sendText(7, "Анна", "привет, бот", nil)

	if got := param(env.api.lastCall(t, "sendMessage"), "text"); got != genericErrorText {
		t.Fatalf("text = %q, want generic error", got)
	}
}

func TestRegisterTripSkippedDates(t *testing.T) {
	env := newEnv(t)

	env.pressButton(7, cbSaveTrip)
	env.requireAckedOnce()

	prompt := env.api.lastCall(t, "sendMessage")
	if !strings.HasPrefix(param(prompt, "text"), "Пожалуйста введите предполагаемую дату вашей поездки в Беларусь") {
		t.Fatalf("first prompt = %q", param(prompt, "text"))
	}
	if !strings.Contains(param(prompt, "text"), payloadBase) {
		t.Fatal("first prompt carries no hidden payload")
	}
	if !strings.Contains(param(prompt, "reply_markup"), "force_reply") {
		t.Fatalf("first prompt must force a reply: %s", param(prompt, "reply_markup"))
	}
	if param(prompt, "parse_mode") != "HTML" {
		t.Fatal("payload prompts must be sent as HTML")
	}

	env.sendText(7, "Анна", "-", env.lastPrompt())
	if !strings.HasPrefix(param(env.api.lastCall(t, "sendMessage"), "text"), "И предполагаемую дату вашей поездки в Испанию") {
		t.Fatal("second prompt not sent")
	}

	env.sendText(7, "Анна", "-", env.lastPrompt())
	if !strings.HasPrefix(param(env.api.lastCall(t, "sendMessage"), "text"), "Какие-нибудь заметки") {
		t.Fatal("note prompt not sent")
	}

	env.sendText(7, "Анна", "Еду налегке, могу взять документы", env.lastPrompt())
	if got := param(env.api.lastCall(t, "sendMessage"), "text"); got != saveSuccessText {
		t.Fatalf("text = %q, want save confirmation", got)
	}

	saved, err := env.store.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("stored %d trips, want 1", len(saved))
	}
	trip := saved[0]
	if trip.TripID != "trip-1" {
		t.Fatalf("TripID = %q", trip.TripID)
	}
	if trip.FirstName != "Анна" {
		t.Fatalf("FirstName = %q", trip.FirstName)
	}
	if trip.ToBelarusDate != trips.SentinelDate || trip.ToSpainDate != trips.SentinelDate {
		t.Fatalf("dates = %q, %q; want sentinel", trip.ToBelarusDate, trip.ToSpainDate)
	}
	if trip.Note != "Еду налегке, могу взять документы" {
		t.Fatalf("Note = %q", trip.Note)
	}
}

func TestRegisterTripRealDates(t *testing.T) {
	env := newEnv(t)

	env.pressButton(7, cbSaveTrip)
	env.sendText(7, "Анна", "17-03-2024", env.lastPrompt())
	env.sendText(7, "Анна", "20-04-2024", env.lastPrompt())
	env.sendText(7, "Анна", "-", env.lastPrompt())

	saved, err := env.store.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("stored %d trips, want 1", len(saved))
	}
	if saved[0].ToBelarusDate != "2024-03-17" || saved[0].ToSpainDate != "2024-04-20" {
		t.Fatalf("dates = %q, %q", saved[0].ToBelarusDate, saved[0].ToSpainDate)
	}
	if saved[0].Note != "-" {
		t.Fatalf("Note = %q, want verbatim dash", saved[0].Note)
	}
}

func TestRegisterTripInvalidDate(t *testing.T) {
	env := newEnv(t)

	env.pressButton(7, cbSaveTrip)
	env.sendText(7, "Анна", "31-02-2024", env.lastPrompt())

	call := env.api.lastCall(t, "sendMessage")
	if got := param(call, "text"); got != incorrectDateText {
		t.Fatalf("text = %q, want invalid-date hint", got)
	}
	if !strings.Contains(param(call, "reply_markup"), "Попробовать снова") {
		t.Fatal("retry button missing")
	}

	saved, _ := env.store.ListByOwner(context.Background(), 7)
	if len(saved) != 0 {
		t.Fatalf("stored %d trips, want 0", len(saved))
	}
}

func seedTrip(t *testing.T, store *trips.MemStore, trip trips.Trip) {
	t.Helper()
	if err := store.Save(context.Background(), trip); err != nil {
		t.Fatalf("seed Save: %v", err)
	}
}

func TestSearchFlow(t *testing.T) {
	env := newEnv(t)
	seedTrip(t, env.store, trips.Trip{
		OwnerID: 1, TripID: "t1", FirstName: "Анна",
		ToBelarusDate: "2024-03-05", ToSpainDate: trips.SentinelDate,
		Note: "мелкие вещи",
	})
	seedTrip(t, env.store, trips.Trip{
		OwnerID: 2, TripID: "t2", FirstName: "Павел",
		ToBelarusDate: "2024-03-20", ToSpainDate: "2024-04-01",
		Note: "только документы",
	})

	env.pressButton(7, cbSearchTrips)
	env.requireAckedOnce()
	intro := env.api.lastCall(t, "editMessageText")
	if param(intro, "text") != searchIntroText {
		t.Fatalf("intro text = %q", param(intro, "text"))
	}
	if !strings.Contains(param(intro, "reply_markup"), "В Беларусь") {
		t.Fatal("destination keyboard missing")
	}

	env.pressButton(7, cbSearchBelarus)
	prompt := env.api.lastCall(t, "sendMessage")
	if param(prompt, "text") == "" || !strings.Contains(param(prompt, "text"), payloadBase) {
		t.Fatal("month prompt carries no payload")
	}

	env.sendText(7, "Ольга", "03-2024", env.lastPrompt())
	result := env.api.lastCall(t, "sendMessage")
	text := param(result, "text")
	for _, want := range []string{
		"1. ", "2. ",
		`<a href="tg://user?id=1">Анна</a>`,
		`<a href="tg://user?id=2">Павел</a>`,
		"Дата поездки в Беларусь: 2024-03-05",
		"Дата поездки в Испанию: -",
		"Примечание: только документы",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("result missing %q:\n%s", want, text)
		}
	}
	if param(result, "parse_mode") != "HTML" {
		t.Fatal("search results must be sent as HTML")
	}
	if !strings.Contains(param(result, "reply_markup"), "Попробовать снова") {
		t.Fatal("search end keyboard missing")
	}
}

func TestSearchEmptyMonth(t *testing.T) {
	env := newEnv(t)

	env.pressButton(7, cbSearchSpain)
	env.sendText(7, "Анна", "07-2024", env.lastPrompt())

	if got := param(env.api.lastCall(t, "sendMessage"), "text"); got != emptySearchText {
		t.Fatalf("text = %q, want empty-month message", got)
	}
}

func TestSearchInvalidMonth(t *testing.T) {
	env := newEnv(t)

	env.pressButton(7, cbSearchBelarus)
	env.sendText(7, "Анна", "13-2024", env.lastPrompt())

	call := env.api.lastCall(t, "sendMessage")
	if got := param(call, "text"); got != incorrectMonthText {
		t.Fatalf("text = %q, want invalid-month hint", got)
	}
	if !strings.Contains(param(call, "reply_markup"), "Попробовать снова") {
		t.Fatal("retry keyboard missing")
	}
}

func TestMyTripsEmpty(t *testing.T) {
	env := newEnv(t)

	env.pressButton(7, cbMyTrips)
	env.requireAckedOnce()

	call := env.api.lastCall(t, "editMessageText")
	if got := param(call, "text"); got != noTripsText {
		t.Fatalf("text = %q, want no-trips message", got)
	}
	markup := param(call, "reply_markup")
	if !strings.Contains(markup, "В начало") {
		t.Fatal("home button missing")
	}
	if strings.Contains(markup, "Удалить") {
		t.Fatalf("empty list must not offer delete buttons: %s", markup)
	}
}

func TestMyTripsListAndDelete(t *testing.T) {
	env := newEnv(t)
	seedTrip(t, env.store, trips.Trip{
		OwnerID: 7, TripID: "t1", FirstName: "Анна",
		ToBelarusDate: "2024-03-05", ToSpainDate: trips.SentinelDate, Note: "вещи",
	})
	seedTrip(t, env.store, trips.Trip{
		OwnerID: 7, TripID: "t2", FirstName: "Анна",
		ToBelarusDate: trips.SentinelDate, ToSpainDate: "2024-04-01", Note: "документы",
	})

	env.pressButton(7, cbMyTrips)
	listing := env.api.lastCall(t, "editMessageText")
	text := param(listing, "text")
	if !strings.HasPrefix(text, "Вот ваши предстоящие поездки:") {
		t.Fatalf("listing = %q", text)
	}
	if !strings.Contains(text, "1. Ваш контакт, как он отобразится в поиске:") || !strings.Contains(text, "2. Ваш контакт") {
		t.Fatalf("listing not numbered:\n%s", text)
	}
	markup := param(listing, "reply_markup")
	if !strings.Contains(markup, "Удалить поездку 1.") || !strings.Contains(markup, "Удалить поездку 2.") {
		t.Fatalf("delete buttons missing: %s", markup)
	}
	if !strings.Contains(markup, "t1") || !strings.Contains(markup, "t2") {
		t.Fatalf("delete buttons must carry trip ids: %s", markup)
	}

	env.api.reset()
	env.pressButton(7, cbDeleteTrip+"|t1")
	env.requireAckedOnce()

	left, err := env.store.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(left) != 1 || left[0].TripID != "t2" {
		t.Fatalf("remaining trips = %+v, want only t2", left)
	}

	relisted := env.api.lastCall(t, "editMessageText")
	if strings.Contains(param(relisted, "text"), "Примечание: вещи") {
		t.Fatal("deleted trip still rendered")
	}
	if !strings.Contains(param(relisted, "text"), "Примечание: документы") {
		t.Fatal("remaining trip not rendered")
	}
}

func TestDeleteIsScopedToSender(t *testing.T) {
	env := newEnv(t)
	seedTrip(t, env.store, trips.Trip{OwnerID: 9, TripID: "t9", FirstName: "Павел"})

	// User 7 presses a delete button for someone else's trip id; the key
	// is (owner, trip), so nothing of user 9 is touched.
	env.pressButton(7, cbDeleteTrip+"|t9")

	left, err := env.store.ListByOwner(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(left) != 1 {
		t.Fatalf("owner 9 has %d trips, want 1", len(left))
	}
}

func TestUnknownCallbackAlerts(t *testing.T) {
	env := newEnv(t)

	env.pressButton(7, "bogus_action")

	acks := env.api.callsTo("answerCallbackQuery")
	if len(acks) != 1 {
		t.Fatalf("callback acknowledged %d times, want exactly once", len(acks))
	}
	if got := param(acks[0], "text"); got != unknownActionAlertText {
		t.Fatalf("alert text = %q", got)
	}
	if alert, _ := acks[0].params["show_alert"].(bool); !alert {
		t.Fatal("unknown action must alert")
	}
}

func TestRegisterTripStoreFailure(t *testing.T) {
	env := newEnv(t)
	env.flaky.err = trips.ErrUnavailable

	env.pressButton(7, cbSaveTrip)
	env.sendText(7, "Анна", "-", env.lastPrompt())
	env.sendText(7, "Анна", "-", env.lastPrompt())
	env.sendText(7, "Анна", "документы", env.lastPrompt())

	if got := param(env.api.lastCall(t, "sendMessage"), "text"); got != storeUnavailableText {
		t.Fatalf("text = %q, want store-unavailable message", got)
	}

	env.flaky.err = nil
	saved, err := env.store.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("stored %d trips after failed save, want 0", len(saved))
	}
}

func TestSearchStoreFailure(t *testing.T) {
	env := newEnv(t)

	env.pressButton(7, cbSearchBelarus)
	env.flaky.err = trips.ErrUnavailable
	env.sendText(7, "Анна", "03-2024", env.lastPrompt())

	call := env.api.lastCall(t, "sendMessage")
	if got := param(call, "text"); got != storeUnavailableText {
		t.Fatalf("text = %q, want store-unavailable message", got)
	}
	if !strings.Contains(param(call, "reply_markup"), "Попробовать снова") {
		t.Fatal("retry keyboard missing on store failure")
	}
}

func TestMyTripsStoreFailure(t *testing.T) {
	env := newEnv(t)
	env.flaky.err = trips.ErrUnavailable

	env.pressButton(7, cbMyTrips)
	env.requireAckedOnce()

	if got := param(env.api.lastCall(t, "sendMessage"), "text"); got != storeUnavailableText {
		t.Fatalf("text = %q, want store-unavailable message", got)
	}
}

func TestDeleteTripStoreFailure(t *testing.T) {
	env := newEnv(t)
	seedTrip(t, env.store, trips.Trip{OwnerID: 7, TripID: "t1", FirstName: "Анна"})
	env.flaky.err = trips.ErrUnavailable

	env.pressButton(7, cbDeleteTrip+"|t1")
	env.requireAckedOnce()

	if got := param(env.api.lastCall(t, "sendMessage"), "text"); got != storeUnavailableText {
		t.Fatalf("text = %q, want store-unavailable message", got)
	}

	env.flaky.err = nil
	left, err := env.store.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(left) != 1 {
		t.Fatalf("trip count = %d, want 1 (failed delete must not drop it)", len(left))
	}
}

func TestHomeButtonEditsInPlace(t *testing.T) {
	env := newEnv(t)

	env.pressButton(7, cbStart)
	env.requireAckedOnce()

	call := env.api.lastCall(t, "editMessageText")
	if got := param(call, "text"); got != greetingText {
		t.Fatalf("text = %q, want greeting", got)
	}
	if len(env.api.callsTo("sendMessage")) != 0 {
		t.Fatal("home button must edit, not send")
	}
}
