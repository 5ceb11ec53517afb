package testsupport

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Canned API bodies.
const (
	SABIdleQueue        = `{"queue":{"status":"Idle","timeleft":"0:00:00","speed":"0 ","sizeleft":"0 B","paused":false,"slots":[]}}`
	SABDownloadingQueue = `{"queue":{"status":"Downloading","timeleft":"00:05:00","speed":"12.3 M","sizeleft":"1.2 GB","paused":false,"slots":[{"nzo_id":"SABnzbd_nzo_1","filename":"Some.Show.S01E01","status":"Downloading","percentage":"42","timeleft":"00:05:00","sizeleft":"1.2 GB"}]}}`
	TautulliNoStreams   = `{"response":{"result":"success","message":null,"data":{"stream_count":"0","sessions":[]}}}`
	TautulliOneStream   = `{"response":{"result":"success","message":null,"data":{"stream_count":"1","sessions":[{"session_key":"7","friendly_name":"Amy","title":"Movie X","full_title":"Movie X","state":"playing","player":"Living Room","media_type":"movie","progress_percent":"40"}]}}}`
)

// FakeSABnzbd is an httptest SABnzbd API that records the modes it receives.
type FakeSABnzbd struct {
	APIKey string
	server *httptest.Server

	mu     sync.Mutex
	queue  string
	status int
	modes  []string
}

// NewFakeSABnzbd starts a fake SABnzbd serving queueBody for mode=queue.
func NewFakeSABnzbd(t testing.TB, queueBody string) *FakeSABnzbd {
	t.Helper()
	fake := &FakeSABnzbd{APIKey: "sab-key", queue: queueBody, status: http.StatusOK}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.server.Close)
	return fake
}

func (f *FakeSABnzbd) serve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f.mu.Lock()
	f.modes = append(f.modes, query.Get("mode"))
	status, body := f.status, f.queue
	f.mu.Unlock()

	if r.URL.Path != "/api" || query.Get("apikey") != f.APIKey {
		http.Error(w, "API Key Incorrect", http.StatusForbidden)
		return
	}
	if status != http.StatusOK {
		http.Error(w, "unavailable", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if query.Get("mode") == "queue" {
		_, _ = w.Write([]byte(body))
		return
	}
	_, _ = w.Write([]byte(`{"status":true}`))
}

// URL returns the server base URL.
func (f *FakeSABnzbd) URL() string { return f.server.URL }

// SetQueue replaces the queue body.
func (f *FakeSABnzbd) SetQueue(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = body
}

// SetStatus makes every subsequent request fail with code (200 restores).
func (f *FakeSABnzbd) SetStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = code
}

// Modes returns the mode parameter of every request so far.
func (f *FakeSABnzbd) Modes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.modes...)
}

// FakeTautulli is an httptest Tautulli v2 API serving get_activity.
type FakeTautulli struct {
	APIKey string
	server *httptest.Server

	mu       sync.Mutex
	activity string
	requests int
}

// NewFakeTautulli starts a fake Tautulli serving activityBody.
func NewFakeTautulli(t testing.TB, activityBody string) *FakeTautulli {
	t.Helper()
	fake := &FakeTautulli{APIKey: "tt-key", activity: activityBody}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.server.Close)
	return fake
}

func (f *FakeTautulli) serve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f.mu.Lock()
	f.requests++
	body := f.activity
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/api/v2" || query.Get("cmd") != "get_activity" {
		http.NotFound(w, r)
		return
	}
	if query.Get("apikey") != f.APIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"response":{"result":"error","message":"Invalid apikey","data":{}}}`))
		return
	}
	_, _ = w.Write([]byte(body))
}

// URL returns the server base URL.
func (f *FakeTautulli) URL() string { return f.server.URL }

// SetActivity replaces the activity body.
func (f *FakeTautulli) SetActivity(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activity = body
}

// Requests returns how many requests were served.
func (f *FakeTautulli) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}
