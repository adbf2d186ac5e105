package console

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/apiclient"
	"github.com/stemsi/seatdesk/internal/config"
)

// script answers prompts from a fixed list and records confirmations.
type script struct {
	mu        sync.Mutex
	answers   []string
	confirm   bool
	questions []string
}

func (s *script) Ask(label string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *script) Secret(label string) (string, error) { return s.Ask(label) }

func (s *script) Confirm(question string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, question)
	return s.confirm
}

// recorder logs "METHOD /path" of every request before routing it.
type recorder struct {
	mu    sync.Mutex
	calls []string
	mux   *http.ServeMux
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.calls = append(r.calls, req.Method+" "+req.URL.Path)
	r.mu.Unlock()
	r.mux.ServeHTTP(w, req)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func reply(w http.ResponseWriter, payload map[string]interface{}) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	if _, ok := payload["status"]; !ok {
		payload["status"] = "success"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func replyRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

// draftRoutes serves the draft lifecycle, handing out ids from ids in order.
func draftRoutes(mux *http.ServeMux, ids ...int) {
	var mu sync.Mutex
	mux.HandleFunc("/init-temp-exam/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		id := 0
		if len(ids) > 0 {
			id, ids = ids[0], ids[1:]
		}
		mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok", Path: "/"})
		reply(w, map[string]interface{}{"exam_id": id})
	})
	mux.HandleFunc("/delete-temp-exam/", func(w http.ResponseWriter, r *http.Request) { reply(w, nil) })
	mux.HandleFunc("/complete-exam-setup/", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]interface{}{"message": "Exam setup completed", "dashboard_url": "/dashboard/"})
	})
}

type harness struct {
	deps   Deps
	out    *bytes.Buffer
	prompt *script
	rec    *recorder
}

func newHarness(t *testing.T, mux *http.ServeMux) *harness {
	t.Helper()
	rec := &recorder{mux: mux}
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerURL:         srv.URL,
		CSRFCookieName:    "csrftoken",
		CSRFHeaderName:    "X-CSRFToken",
		RequestTimeout:    5 * time.Second,
		AbandonTimeout:    time.Second,
		SheetExportDir:    t.TempDir(),
		StudentPortalPath: "/student-portal/",
	}
	api, err := apiclient.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	h := &harness{out: &bytes.Buffer{}, prompt: &script{confirm: true}, rec: rec}
	h.deps = Deps{
		Config:  cfg,
		Catalog: config.DefaultCatalog(),
		API:     api,
		Prompt:  h.prompt,
		Out:     h.out,
		Log:     zerolog.Nop(),
	}
	return h
}

// box shares a value between a handler and the test.
type box[T any] struct {
	mu sync.Mutex
	v  T
}

func (b *box[T]) Set(v T) {
	b.mu.Lock()
	b.v = v
	b.mu.Unlock()
}

func (b *box[T]) Get() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.v
}
