package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AaronLay10/SliderEngine/internal/clock"
	"github.com/AaronLay10/SliderEngine/internal/embed"
	"github.com/AaronLay10/SliderEngine/internal/storage"
	"github.com/AaronLay10/SliderEngine/internal/storage/memory"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	server *Server
	http   *httptest.Server
	store  *memory.Store
	clock  *clock.Manual
	demoID int64
}

// newTestEnv serves a Server backed by a seeded memory store and embeds on
// a manual clock. Auth and TLS are off.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	auth = nil
	SetTLSConfigForTest(nil)

	ctx := context.Background()
	st := memory.New()
	if _, err := storage.SeedDemo(ctx, st, "/assets/"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, _ := st.List(ctx)

	clk := clock.NewManual(epoch)
	reg := embed.NewRegistry(st, embed.WithClock(clk), embed.WithProgressEvents(false))
	srv := NewServer(st, reg, nil)
	hs := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		hs.Close()
		reg.Close()
	})
	return &testEnv{server: srv, http: hs, store: st, clock: clk, demoID: list[0].ID}
}

// do sends a JSON request and decodes the JSON response into out when
// non-nil.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.http.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// waitFor polls a condition until it returns true or timeout expires.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("timeout waiting for: %s", msg)
}
