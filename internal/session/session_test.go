package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/greenfield-poultry/farmshop/internal/cart"
	"github.com/greenfield-poultry/farmshop/internal/catalog"
	"github.com/greenfield-poultry/farmshop/internal/events"
	"github.com/greenfield-poultry/farmshop/internal/models"
	"github.com/greenfield-poultry/farmshop/internal/session"
	"github.com/greenfield-poultry/farmshop/internal/storage"
)

func echoSession(t *testing.T) http.Handler {
	t.Helper()
	return session.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := session.FromContext(r.Context())
		if !ok {
			t.Error("no session id in context")
		}
		_, _ = w.Write([]byte(id))
	}))
}

func TestMiddleware_IssuesCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	echoSession(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != session.CookieName {
		t.Errorf("cookie name = %q", c.Name)
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		t.Errorf("cookie value %q is not a uuid", c.Value)
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Errorf("cookie attributes = %+v", c)
	}
	if c.MaxAge < 364*24*3600 {
		t.Errorf("MaxAge = %d, want about a year", c.MaxAge)
	}
	if rr.Body.String() != c.Value {
		t.Errorf("context id %q != cookie %q", rr.Body.String(), c.Value)
	}
}

func TestMiddleware_KeepsValidCookie(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
	rr := httptest.NewRecorder()
	echoSession(t).ServeHTTP(rr, req)

	if len(rr.Result().Cookies()) != 0 {
		t.Error("middleware re-issued a valid cookie")
	}
	if rr.Body.String() != id {
		t.Errorf("session id = %q, want %q", rr.Body.String(), id)
	}
}

func TestMiddleware_ReplacesMalformedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "../../etc/passwd"})
	rr := httptest.NewRecorder()
	echoSession(t).ServeHTTP(rr, req)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "../../etc/passwd" {
		t.Fatalf("cookies = %+v, want a fresh id", cookies)
	}
}

func TestFromContext_Missing(t *testing.T) {
	if _, ok := session.FromContext(context.Background()); ok {
		t.Error("FromContext(empty) ok = true")
	}
}

func mustCart(t *testing.T, reg *session.Registry, ctx context.Context, id string) *cart.Cart {
	t.Helper()
	c, err := reg.Cart(ctx, id)
	if err != nil {
		t.Fatalf("Cart(%q): %v", id, err)
	}
	return c
}

func TestRegistry_OneCartPerSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	reg := session.NewRegistry(store, nil)
	eggs, _ := catalog.Default().Find("eggs-large")

	a := mustCart(t, reg, ctx, "a")
	if mustCart(t, reg, ctx, "a") != a {
		t.Fatal("same session returned a different cart")
	}
	a.Add(ctx, eggs)
	if mustCart(t, reg, ctx, "b").ItemCount() != 0 {
		t.Error("session b sees session a's items")
	}
	if a.Key() != "poultryCart:a" {
		t.Errorf("key = %q", a.Key())
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}
}

func TestRegistry_SweepKeepsSlot(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	reg := session.NewRegistry(storage.NewMemStore(), nil, session.WithClock(clock))
	eggs, _ := catalog.Default().Find("eggs-large")

	mustCart(t, reg, ctx, "idle").Add(ctx, eggs)
	now = now.Add(time.Hour)
	mustCart(t, reg, ctx, "busy")

	if n := reg.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("Sweep dropped %d, want 1", n)
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}
	if got := mustCart(t, reg, ctx, "idle").ItemCount(); got != 1 {
		t.Errorf("restored idle cart count = %d, want 1", got)
	}
}

func TestRegistry_WiresHooks(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	ch := bus.Subscribe("s1", "tab")
	defer bus.Unsubscribe("s1", "tab")
	reg := session.NewRegistry(storage.NewMemStore(), bus)
	eggs, _ := catalog.Default().Find("eggs-large")

	mustCart(t, reg, ctx, "s1").Add(ctx, eggs)

	var got []models.Event
	for len(got) < 3 {
		select {
		case ev := <-ch:
			got = append(got, ev)
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("got %d events, want 3", len(got))
		}
	}
	if got[0].Type != models.EventCount || *got[0].Count != 0 {
		t.Errorf("load event = %+v", got[0])
	}
	if got[1].Type != models.EventCount || *got[1].Count != 1 {
		t.Errorf("add count event = %+v", got[1])
	}
	if got[2].Type != models.EventNotice || got[2].Notice.Message != "Fresh Farm Eggs - Large added to cart!" {
		t.Errorf("add notice event = %+v", got[2])
	}
}

func TestRegistry_RateLimit(t *testing.T) {
	ctx := context.Background()
	reg := session.NewRegistry(storage.NewMemStore(), nil, session.WithRateLimit(0.001, 2))

	if !reg.Allow(ctx, "s") || !reg.Allow(ctx, "s") {
		t.Fatal("burst of 2 not allowed")
	}
	if reg.Allow(ctx, "s") {
		t.Error("third request allowed, want limited")
	}
	if !reg.Allow(ctx, "other") {
		t.Error("other session limited by s")
	}

	unlimited := session.NewRegistry(storage.NewMemStore(), nil)
	for i := 0; i < 100; i++ {
		if !unlimited.Allow(ctx, "s") {
			t.Fatal("default registry should not limit")
		}
	}
}

func seedSlot(t *testing.T, store storage.Store, sessionID string, items []models.LineItem) {
	t.Helper()
	data, err := json.Marshal(items)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.Background(), cart.Key(sessionID), data); err != nil {
		t.Fatal(err)
	}
}

func TestRegistry_CancelledFirstRequestKeepsSavedCart(t *testing.T) {
	store := storage.NewMemStore()
	eggs, _ := catalog.Default().Find("eggs-large")
	broiler, _ := catalog.Default().Find("broiler-2kg")
	seedSlot(t, store, "s1", []models.LineItem{{Product: eggs, Quantity: 5}})
	reg := session.NewRegistry(store, nil)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := mustCart(t, reg, cancelled, "s1").ItemCount(); got != 5 {
		t.Fatalf("ItemCount after cancelled first load = %d, want 5", got)
	}

	ctx := context.Background()
	mustCart(t, reg, ctx, "s1").Add(ctx, broiler)

	data, err := store.Get(ctx, cart.Key("s1"))
	if err != nil {
		t.Fatal(err)
	}
	var items []models.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != "eggs-large" || items[0].Quantity != 5 {
		t.Errorf("slot = %s, want eggs x5 followed by the broiler", data)
	}
}

func TestRegistry_FailedLoadIsRetried(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	eggs, _ := catalog.Default().Find("eggs-large")
	seedSlot(t, store, "s1", []models.LineItem{{Product: eggs, Quantity: 5}})
	reg := session.NewRegistry(store, nil)

	boom := errors.New("connection reset")
	store.FailReads(boom)
	writes := store.Writes()
	if _, err := reg.Cart(ctx, "s1"); !errors.Is(err, cart.ErrUnreadable) {
		t.Fatalf("Cart err = %v, want ErrUnreadable", err)
	}
	if store.Writes() != writes {
		t.Error("slot written after failed load")
	}

	store.FailReads(nil)
	if got := mustCart(t, reg, ctx, "s1").ItemCount(); got != 5 {
		t.Errorf("ItemCount after retry = %d, want 5", got)
	}
}

func TestRegistry_AllowDoesNotReadStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	store.FailReads(errors.New("backend down"))
	reg := session.NewRegistry(store, nil)

	if !reg.Allow(ctx, "s1") {
		t.Fatal("Allow = false on an unlimited registry")
	}
	store.FailReads(nil)
	if got := mustCart(t, reg, ctx, "s1").ItemCount(); got != 0 {
		t.Errorf("ItemCount = %d, want 0", got)
	}
}
