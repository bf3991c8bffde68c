package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSlackSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("unmarshal payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlack(srv.URL)
	if err := s.Send(context.Background(), "Reservations made by Tester:"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got["text"] != "Reservations made by Tester:" {
		t.Errorf("payload text: got %q", got["text"])
	}
}

func TestSlackSendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := NewSlack(srv.URL).Send(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) Send(ctx context.Context, text string) error {
	s.sent = append(s.sent, text)
	return s.err
}

func TestFanout(t *testing.T) {
	a := &stubSender{}
	b := &stubSender{err: context.DeadlineExceeded}
	c := &stubSender{}

	err := Fanout{a, b, c}.Send(context.Background(), "msg")
	if err != context.DeadlineExceeded {
		t.Fatalf("expected first error back, got %v", err)
	}
	for i, s := range []*stubSender{a, b, c} {
		if len(s.sent) != 1 {
			t.Errorf("sender %d: expected delivery attempt, got %d", i, len(s.sent))
		}
	}
}
