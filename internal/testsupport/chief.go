package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeChiefVersion is the version reported by FakeChief.
const FakeChiefVersion = "0.0.24"

// FakeChief is an in-process chief API that records submissions and replays
// a scripted sequence of pipeline states.
type FakeChief struct {
	Server *httptest.Server

	mu          sync.Mutex
	submissions []map[string]any
	states      []string
	polls       int
	pipelineID  string
	logs        map[string]string
}

// NewFakeChief starts a fake chief that assigns pipelineID to submissions and
// reports states in order, repeating the last one.
func NewFakeChief(t testing.TB, pipelineID string, states ...string) *FakeChief {
	t.Helper()
	if len(states) == 0 {
		states = []string{"STARTED"}
	}
	fc := &FakeChief{
		pipelineID: pipelineID,
		states:     states,
		logs:       map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/submit", fc.handleSubmit)
	mux.HandleFunc("GET /api/v1/status", fc.handleStatus)
	mux.HandleFunc("GET /api/v1/version", fc.handleVersion)
	mux.HandleFunc("GET /logs/{name}", fc.handleLogs)
	fc.Server = httptest.NewServer(mux)
	t.Cleanup(fc.Server.Close)
	return fc
}

// URL returns the chief base address.
func (f *FakeChief) URL() string {
	return f.Server.URL
}

// SetLog registers the body served for /logs/<name>.
func (f *FakeChief) SetLog(name, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[name] = body
}

// Submissions returns the decoded submit payloads received so far.
func (f *FakeChief) Submissions() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, len(f.submissions))
	copy(out, f.submissions)
	return out
}

// Polls returns how many status requests were served.
func (f *FakeChief) Polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func (f *FakeChief) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.submissions = append(f.submissions, payload)
	f.mu.Unlock()
	writeJSON(w, map[string]string{"pipelineId": f.pipelineID})
}

func (f *FakeChief) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("uuid")
	if id != f.pipelineID {
		http.NotFound(w, r)
		return
	}
	f.mu.Lock()
	state := f.states[min(f.polls, len(f.states)-1)]
	f.polls++
	f.mu.Unlock()
	writeJSON(w, map[string]string{"pipelineId": id, "state": state})
}

func (f *FakeChief) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"version": FakeChiefVersion})
}

func (f *FakeChief) handleLogs(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f.mu.Lock()
	body, ok := f.logs[name]
	f.mu.Unlock()
	if !ok || !strings.HasSuffix(name, ".log") {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
