package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDisconnect_SendsInstanceOnly(t *testing.T) {
	var got map[string]any
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(srv.URL, "secret").Disconnect(context.Background(), "inst-1"); err != nil {
		t.Fatal(err)
	}

	if auth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got["event"] != "messaging.disconnect" {
		t.Fatalf("unexpected event %v", got["event"])
	}
	data, _ := got["data"].(map[string]any)
	if len(data) != 1 || data["instance"] != "inst-1" {
		t.Fatalf("unexpected payload %v", data)
	}
}

func TestPost_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := New(srv.URL, "").Disconnect(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestDisabledIsNoop(t *testing.T) {
	if err := New("", "").Disconnect(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
}
