package http

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/0xcro3dile/buddy-go/internal/adapters/api"
	"github.com/0xcro3dile/buddy-go/internal/adapters/render"
	"github.com/0xcro3dile/buddy-go/internal/adapters/view"
	"github.com/0xcro3dile/buddy-go/internal/domain/usecases"
)

// fakeBackend answers the buddy endpoints the UI tests need
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/query":
			w.Write([]byte(`{"answer":"API <b>done</b>","confidence":0.8765}`))
		case "/api/actions/alpha":
			w.Write([]byte(`[{"description":"ship it","mentioned_at":"2024-03-01T10:30:00Z"}]`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"boom"}`))
		}
	}))
	t.Cleanup(backend.Close)
	return backend
}

// startUI serves a fresh board against fakeBackend and returns its base URL
func startUI(t *testing.T) (string, *view.Board) {
	t.Helper()
	base, board, _ := startUIWith(t, fakeBackend(t).URL)
	return base, board
}

// startUIWith serves a fresh board against backendURL. stop shuts the
// server down and returns what Serve returned.
func startUIWith(t *testing.T, backendURL string) (string, *view.Board, func() error) {
	t.Helper()

	renderer, err := render.NewHTML(time.UTC)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	board := view.NewBoard()
	client := usecases.NewClient(api.NewHTTPClient(backendURL), renderer, board, board.Bindings(), nil)
	srv := NewServer(board, client, "", nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	var once sync.Once
	var serveErr error
	stop := func() error {
		once.Do(func() {
			cancel()
			serveErr = <-done
		})
		return serveErr
	}
	t.Cleanup(func() {
		if err := stop(); err != nil {
			t.Errorf("serve returned: %v", err)
		}
	})

	return "http://" + ln.Addr().String(), board, stop
}

func dial(t *testing.T, base string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(base, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// The greeting arrives once the page is registered with the hub.
	var greeting map[string]interface{}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&greeting); err != nil {
		t.Fatalf("reading greeting: %v", err)
	}
	if greeting["type"] != "state" {
		t.Fatalf("unexpected greeting: %v", greeting)
	}
	return conn
}

// waitFor reads updates until match accepts one
func waitFor(t *testing.T, conn *websocket.Conn, match func(view.Update) bool) view.Update {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var u view.Update
		if err := conn.ReadJSON(&u); err != nil {
			t.Fatalf("no matching update: %v", err)
		}
		if match(u) {
			return u
		}
	}
}

func post(t *testing.T, base, op string, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.PostForm(base+"/ui/"+op, form)
	if err != nil {
		t.Fatalf("post %s: %v", op, err)
	}
	resp.Body.Close()
	return resp
}

func TestAsk_PushesAnswerRegion(t *testing.T) {
	base, board := startUI(t)
	conn := dial(t, base)

	resp := post(t, base, "ask", url.Values{"questionInput": {"status?"}, "projectInput": {"alpha"}})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	u := waitFor(t, conn, func(u view.Update) bool {
		return u.Kind == view.KindRegion && u.Name == view.RegionAnswer
	})
	if !strings.Contains(u.Value, "87.7%") {
		t.Errorf("answer region missing confidence: %q", u.Value)
	}
	if strings.Contains(u.Value, "<b>") {
		t.Errorf("answer should be escaped: %q", u.Value)
	}

	waitFor(t, conn, func(u view.Update) bool {
		return u.Kind == view.KindField && u.Name == view.FieldQuestion && u.Value == ""
	})
	if board.Question.Value() != "" {
		t.Error("question field should be cleared")
	}

	stateResp, err := http.Get(base + "/ui/state")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	defer stateResp.Body.Close()
	var state view.State
	if err := json.NewDecoder(stateResp.Body).Decode(&state); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if state.Fields[view.FieldProject] != "alpha" {
		t.Errorf("posted project not applied: %+v", state.Fields)
	}
	if !strings.Contains(state.Regions[view.RegionAnswer], "87.7%") {
		t.Errorf("snapshot missing answer: %+v", state.Regions)
	}
}

func TestSubmit_EmptyNotifiesAlert(t *testing.T) {
	base, _ := startUI(t)
	conn := dial(t, base)

	post(t, base, "submit", url.Values{"messageInput": {"   "}})

	u := waitFor(t, conn, func(u view.Update) bool { return u.Kind == view.KindNotification })
	if u.Level != "alert" || u.Value != "Please enter a message" {
		t.Errorf("unexpected notification: %+v", u)
	}
}

func TestActions_ErrorAndSuccess(t *testing.T) {
	base, _ := startUI(t)
	conn := dial(t, base)

	post(t, base, "actions", url.Values{"projectInput": {"alpha"}})
	u := waitFor(t, conn, func(u view.Update) bool { return u.Kind == view.KindRegion })
	if !strings.Contains(u.Value, "<strong>ship it</strong>") {
		t.Errorf("unexpected actions region: %q", u.Value)
	}

	post(t, base, "context", url.Values{"projectInput": {"beta"}})
	u = waitFor(t, conn, func(u view.Update) bool {
		return u.Kind == view.KindRegion && u.Name == view.RegionContext
	})
	if u.Value != "Error: server returned status 500: boom" {
		t.Errorf("unexpected context region: %q", u.Value)
	}
}

func TestRoutes(t *testing.T) {
	base, _ := startUI(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"index", http.MethodGet, "/", http.StatusOK, `id="messageInput"`},
		{"health", http.MethodGet, "/api/health", http.StatusOK, `"status":"ok"`},
		{"unknown op", http.MethodPost, "/ui/delete", http.StatusNotFound, "Unknown operation"},
		{"unknown page", http.MethodGet, "/nope", http.StatusNotFound, ""},
		{"preflight", http.MethodOptions, "/ui/ask", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, base+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
				t.Error("missing CORS header")
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("reading body: %v", err)
			}
			if tt.body != "" && !strings.Contains(string(body), tt.body) {
				t.Errorf("body missing %q", tt.body)
			}
		})
	}
}

func TestHub_BroadcastAfterStop(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	for i := 0; i < sendBuffer+10; i++ {
		hub.Broadcast([]byte("x"))
	}
	if hub.Clients() != 0 {
		t.Errorf("expected no clients, got %d", hub.Clients())
	}
}

// questionLog is a backend that records every question it is asked.
// Questions listed in hold wait until release is closed.
type questionLog struct {
	mu      sync.Mutex
	asked   []string
	hold    map[string]bool
	release chan struct{}
}

func (l *questionLog) handler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	l.mu.Lock()
	l.asked = append(l.asked, req.Question)
	l.mu.Unlock()

	if l.hold[req.Question] {
		<-l.release
	}
	w.Write([]byte(`{"answer":"answer to ` + req.Question + `","confidence":0.5}`))
}

func (l *questionLog) questions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.asked...)
}

func TestAsk_BackToBackPostsSendEachQuestion(t *testing.T) {
	ql := &questionLog{}
	backend := httptest.NewServer(http.HandlerFunc(ql.handler))
	defer backend.Close()
	base, _, _ := startUIWith(t, backend.URL)

	post(t, base, "ask", url.Values{"questionInput": {"Q1"}})
	post(t, base, "ask", url.Values{"questionInput": {"Q2"}})

	deadline := time.Now().Add(3 * time.Second)
	for len(ql.questions()) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	got := map[string]int{}
	for _, q := range ql.questions() {
		got[q]++
	}
	if got["Q1"] != 1 || got["Q2"] != 1 || len(got) != 2 {
		t.Errorf("expected Q1 and Q2 once each, got %v", ql.questions())
	}
}

func TestAsk_SuccessKeepsNewerInput(t *testing.T) {
	ql := &questionLog{hold: map[string]bool{"Q1": true}, release: make(chan struct{})}
	backend := httptest.NewServer(http.HandlerFunc(ql.handler))
	defer backend.Close()
	base, board, _ := startUIWith(t, backend.URL)
	conn := dial(t, base)

	post(t, base, "ask", url.Values{"questionInput": {"Q1"}})
	deadline := time.Now().Add(3 * time.Second)
	for len(ql.questions()) < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	// The user types a new question while Q1 is still in flight.
	post(t, base, "projects", url.Values{"questionInput": {"Q2"}})
	waitFor(t, conn, func(u view.Update) bool {
		return u.Kind == view.KindField && u.Name == view.FieldQuestion && u.Value == "Q2"
	})
	close(ql.release)

	waitFor(t, conn, func(u view.Update) bool {
		return u.Kind == view.KindRegion && u.Name == view.RegionAnswer
	})
	if got := board.Question.Value(); got != "Q2" {
		t.Errorf("answer to Q1 should not clear Q2, field is %q", got)
	}
}

func TestServe_WaitsForRunningOperations(t *testing.T) {
	ql := &questionLog{hold: map[string]bool{"slow": true}, release: make(chan struct{})}
	backend := httptest.NewServer(http.HandlerFunc(ql.handler))
	defer backend.Close()
	base, board, stop := startUIWith(t, backend.URL)

	post(t, base, "ask", url.Values{"questionInput": {"slow"}})
	deadline := time.Now().Add(3 * time.Second)
	for len(ql.questions()) < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	time.AfterFunc(50*time.Millisecond, func() { close(ql.release) })
	if err := stop(); err != nil {
		t.Fatalf("serve returned: %v", err)
	}
	if board.Answer.Version() == 0 {
		t.Error("serve returned before the running operation wrote its region")
	}
}

func TestHandleOp_RefusedAfterShutdown(t *testing.T) {
	board := view.NewBoard()
	renderer, _ := render.NewHTML(time.UTC)
	client := usecases.NewClient(api.NewHTTPClient(""), renderer, board, board.Bindings(), nil)
	srv := NewServer(board, client, "", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv.baseCtx = ctx

	req := httptest.NewRequest(http.MethodPost, "/ui/ask", strings.NewReader("questionInput=late"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}
