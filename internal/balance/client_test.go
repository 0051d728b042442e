package balance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"staffbot/core/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.Config{Level: "error"})
	os.Exit(m.Run())
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Api/Card/GetBalanceAndHistory" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("cardNumber"); got != "12345" {
			t.Errorf("cardNumber = %q", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "secret" {
			t.Errorf("apikey = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Balance": 250.5,
			"BalanceHistory": [
				{"isReplenishment": true, "value": 500, "date": "01.08.2026 12:00", "parkObjectName": "Касса"},
				{"isReplenishment": false, "value": 249.5, "date": "01.08.2026 14:30", "parkObjectName": "Колесо обозрения"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second, srv.Client())
	res, err := c.Lookup(context.Background(), "12345")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if res.Balance.String() != "250.5" {
		t.Errorf("balance = %q", res.Balance)
	}
	if len(res.History) != 2 {
		t.Fatalf("history length = %d", len(res.History))
	}
	if !res.History[0].IsReplenishment || res.History[1].IsReplenishment {
		t.Error("replenishment flags lost in decoding")
	}
}

func TestLookupRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second, srv.Client())
	if _, err := c.Lookup(context.Background(), "12345"); err == nil {
		t.Error("non-200 must be an error")
	}
}

func TestLookupTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(srv.URL, "secret", 50*time.Millisecond, srv.Client())
	if _, err := c.Lookup(context.Background(), "12345"); err == nil {
		t.Error("a stalled backend must time out")
	}
}

func TestFormat(t *testing.T) {
	res := &Result{
		Balance: "250.5",
		History: []HistoryEntry{
			{IsReplenishment: true, Value: "500", Date: "01.08.2026 12:00", ParkObjectName: "Касса"},
			{IsReplenishment: false, Value: "249.5", Date: "01.08.2026 14:30", ParkObjectName: "Колесо обозрения"},
		},
	}

	out := Format("12345", res)

	for _, want := range []string{
		"**Номер карты**: `12345`",
		"**Баланс**: `250.5`",
		"**История операций**:",
		"01.08.2026 12:00 +500 Касса",
		"01.08.2026 14:30 -249.5 Колесо обозрения",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatUnknownBalance(t *testing.T) {
	out := Format("1", &Result{})
	if !strings.Contains(out, "**Баланс**: `неизвестно`") {
		t.Errorf("empty balance must render as unknown:\n%s", out)
	}
	if strings.Contains(out, "История операций") {
		t.Error("empty history must not render a history section")
	}
}
