package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"arith-recall/internal/domain"
)

type brokenStore struct{}

func (brokenStore) ReadAll(context.Context) ([]domain.LeaderboardEntry, error) {
	return nil, errors.New("disk on fire")
}

func (brokenStore) WriteAll(context.Context, []domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	return nil, errors.New("disk on fire")
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url+"/api/leaderboard", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestLeaderboardPostAndGet(t *testing.T) {
	server := newTestServer(t, idleTiming, nil)

	for _, body := range []string{
		`{"name":"A","score":20,"totalTime":100}`,
		`{"name":"B","score":25,"totalTime":120}`,
		`{"name":"C","score":20,"totalTime":90}`,
		`{"name":"` + strings.Repeat("z", 60) + `","score":1,"totalTime":5.5}`,
	} {
		resp, data := post(t, server.URL, body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
		}
		if strings.TrimSpace(string(data)) != `{"ok":true}` {
			t.Fatalf("unexpected body %s", data)
		}
	}

	resp, err := http.Get(server.URL + "/api/leaderboard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var entries []domain.LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	order := []string{entries[0].Name, entries[1].Name, entries[2].Name}
	if strings.Join(order, ",") != "B,C,A" {
		t.Fatalf("unexpected order %v", order)
	}
	if len([]rune(entries[3].Name)) != domain.MaxNameLength {
		t.Fatalf("expected name truncated to %d, got %d", domain.MaxNameLength, len(entries[3].Name))
	}
	if entries[0].CreatedAt.IsZero() {
		t.Fatalf("createdAt should be stamped server-side")
	}
}

func TestLeaderboardPostValidation(t *testing.T) {
	server := newTestServer(t, idleTiming, nil)

	cases := map[string]string{
		"missing score":    `{"name":"A","totalTime":1}`,
		"missing name":     `{"score":1,"totalTime":1}`,
		"missing time":     `{"name":"A","score":1}`,
		"mistyped score":   `{"name":"A","score":"ten","totalTime":1}`,
		"fractional score": `{"name":"A","score":1.5,"totalTime":1}`,
		"empty name":       `{"name":"","score":1,"totalTime":1}`,
		"not json":         `name=A`,
	}
	for name, body := range cases {
		resp, data := post(t, server.URL, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, resp.StatusCode)
		}
		var envelope struct {
			Error errorBody `json:"error"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			t.Fatalf("%s: decode envelope: %v", name, err)
		}
		if envelope.Error.Code != codeBadRequest || envelope.Error.Message == "" {
			t.Fatalf("%s: unexpected envelope %+v", name, envelope)
		}
	}
}

func TestLeaderboardStorageFailures(t *testing.T) {
	server := newTestServer(t, idleTiming, brokenStore{})

	resp, err := http.Get(server.URL + "/api/leaderboard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("reads degrade to an empty list, got %d %s", resp.StatusCode, body)
	}

	resp, data := post(t, server.URL, `{"name":"A","score":1,"totalTime":1}`)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(data)) != `{"ok":true}` {
		t.Fatalf("writes degrade to a no-op, got %d: %s", resp.StatusCode, data)
	}

	resp, data = post(t, server.URL, `{"name":"A","score":"x","totalTime":1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("validation still applies, got %d: %s", resp.StatusCode, data)
	}
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, idleTiming, nil)
	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") == "application/json" {
		t.Fatalf("healthz is plain text")
	}
}
