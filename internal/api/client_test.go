package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	c, err := New(ts.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, &reqs
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestStatusDecodesSnapshot(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"running":true,"paused":false,"workflow":"open",
			"file_counts":{"review_pending":5,"open":12,"processed":40},
			"stats":{"processed":3,"failed":1}}`)
	})

	snap, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got := (*reqs)[0]; got.method != http.MethodGet || got.path != "/api/status" {
		t.Errorf("request = %s %s, want GET /api/status", got.method, got.path)
	}

	u := snap.Update()
	if u.Running == nil || !*u.Running {
		t.Errorf("Running = %v, want true", u.Running)
	}
	if u.Paused == nil || *u.Paused {
		t.Errorf("Paused = %v, want false", u.Paused)
	}
	if u.Workflow == nil || *u.Workflow != models.SelectionOpen {
		t.Errorf("Workflow = %v, want open", u.Workflow)
	}
	checks := []struct {
		name string
		got  *int
		want int
	}{
		{"review_pending", u.ReviewPending, 5},
		{"open", u.Open, 12},
		{"processed", u.Processed, 3},
		{"failed", u.Failed, 1},
	}
	for _, ck := range checks {
		if ck.got == nil || *ck.got != ck.want {
			t.Errorf("%s = %v, want %d", ck.name, ck.got, ck.want)
		}
	}
}

func TestSnapshotUpdateOnlyCarriesPresentFields(t *testing.T) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(`{"stats":{"processed":7}}`), &snap); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	u := snap.Update()
	if u.CarriesWorkflow() {
		t.Error("update without running should not carry workflow fields")
	}
	if u.Processed == nil || *u.Processed != 7 {
		t.Errorf("Processed = %v, want 7", u.Processed)
	}
	if u.Failed != nil || u.ReviewPending != nil || u.Open != nil {
		t.Error("absent counters must stay nil")
	}
}

func TestStatusDecodeFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>not json</html>`)
	})

	if _, err := c.Status(context.Background()); err == nil {
		t.Fatal("expected decode error")
	} else if IsRejection(err) {
		t.Errorf("decode failure reported as rejection: %v", err)
	}
}

func TestStartSendsSelection(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Started both workflow"})
	})

	msg, err := c.Start(context.Background(), models.SelectionBoth)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if msg != "Started both workflow" {
		t.Errorf("message = %q", msg)
	}
	got := (*reqs)[0]
	if got.method != http.MethodPost || got.path != "/api/start" {
		t.Errorf("request = %s %s, want POST /api/start", got.method, got.path)
	}
	if got.body != `{"workflow":"both"}` {
		t.Errorf("body = %s", got.body)
	}
}

func TestCommandRejection(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		body    string
		wantMsg string
	}{
		{
			name:    "error payload",
			code:    http.StatusBadRequest,
			body:    `{"error":"Workflow already running"}`,
			wantMsg: "Workflow already running",
		},
		{
			name:    "no payload",
			code:    http.StatusInternalServerError,
			body:    ``,
			wantMsg: "pause: server returned HTTP 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Pause(context.Background())
			var he *HTTPError
			if !errors.As(err, &he) {
				t.Fatalf("err = %v, want *HTTPError", err)
			}
			if he.StatusCode != tt.code {
				t.Errorf("StatusCode = %d, want %d", he.StatusCode, tt.code)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(url)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Resume(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if IsRejection(err) {
		t.Errorf("transport failure reported as rejection: %v", err)
	}
}

func TestStopContracts(t *testing.T) {
	tests := []struct {
		name     string
		contract string
		shutdown bool
		wantBody string
	}{
		{"shutdown flag", models.StopContractShutdownFlag, false, `{"shutdown":false}`},
		{"empty body", models.StopContractEmptyBody, false, ``},
		{"empty body still sends shutdown", models.StopContractEmptyBody, true, `{"shutdown":true}`},
		{"server shutdown", models.StopContractShutdownFlag, true, `{"shutdown":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"message": "Workflow stopped"})
			}, WithStopContract(tt.contract))

			if _, err := c.Stop(context.Background(), tt.shutdown); err != nil {
				t.Fatalf("Stop: %v", err)
			}
			if got := (*reqs)[0].body; got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestNewRejectsBadURLs(t *testing.T) {
	for _, raw := range []string{"", "localhost:5000", "ftp://host", "http://"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) succeeded, want error", raw)
		}
	}
}
