package tautulli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"
)

// StatePlaying is the session state of an actively playing stream.
const StatePlaying = "playing"

// Session describes one active Plex stream.
type Session struct {
	SessionKey      string
	FriendlyName    string
	Title           string
	FullTitle       string
	State           string
	Player          string
	MediaType       string
	ProgressPercent string
}

// SessionSummary is the (name, title, state) triple shown on the display.
type SessionSummary struct {
	Name  string
	Title string
	State string
}

// Activity is a read-only projection of `response.data` from get_activity.
type Activity struct {
	sessions    []Session
	streamCount int
}

type activityEnvelope struct {
	Response *activityResponse `json:"response"`
}

type activityResponse struct {
	Result  string        `json:"result"`
	Message *string       `json:"message"`
	Data    *activityData `json:"data"`
}

// summaryKeys must be present on every session.
var summaryKeys = [...]string{"friendly_name", "title", "state"}

type activityData struct {
	Sessions    *[]map[string]any `json:"sessions"`
	StreamCount json.RawMessage   `json:"stream_count"`
}

// ParseActivity decodes a get_activity response body. It fails when
// `response.data`, `sessions` or `stream_count` is absent or null, when a
// session lacks `friendly_name`, `title` or `state`, or when Tautulli reports
// result "error".
func ParseActivity(r io.Reader) (*Activity, error) {
	var envelope activityEnvelope
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	resp := envelope.Response
	if resp == nil {
		return nil, errors.New("response missing")
	}
	if strings.EqualFold(resp.Result, "error") {
		message := "unknown error"
		if resp.Message != nil && strings.TrimSpace(*resp.Message) != "" {
			message = strings.TrimSpace(*resp.Message)
		}
		return nil, fmt.Errorf("tautulli error: %s", message)
	}
	return newActivity(resp.Data)
}

func newActivity(data *activityData) (*Activity, error) {
	if data == nil {
		return nil, errors.New("response missing data")
	}
	if data.Sessions == nil {
		return nil, errors.New("data missing sessions")
	}
	if len(data.StreamCount) == 0 || string(data.StreamCount) == "null" {
		return nil, errors.New("data missing stream_count")
	}

	var raw any
	if err := json.Unmarshal(data.StreamCount, &raw); err != nil {
		return nil, fmt.Errorf("decode stream_count: %w", err)
	}
	count, err := cast.ToIntE(raw)
	if err != nil {
		return nil, fmt.Errorf("stream_count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("stream_count must be >= 0 (got %d)", count)
	}

	sessions := make([]Session, 0, len(*data.Sessions))
	for i, item := range *data.Sessions {
		for _, key := range summaryKeys {
			if _, ok := item[key]; !ok {
				return nil, fmt.Errorf("session %d missing %s", i, key)
			}
		}
		sessions = append(sessions, Session{
			SessionKey:      cast.ToString(item["session_key"]),
			FriendlyName:    cast.ToString(item["friendly_name"]),
			Title:           cast.ToString(item["title"]),
			FullTitle:       cast.ToString(item["full_title"]),
			State:           cast.ToString(item["state"]),
			Player:          cast.ToString(item["player"]),
			MediaType:       cast.ToString(item["media_type"]),
			ProgressPercent: cast.ToString(item["progress_percent"]),
		})
	}
	return &Activity{sessions: sessions, streamCount: count}, nil
}

// StreamCount returns the number of streams Tautulli reports.
func (a *Activity) StreamCount() int { return a.streamCount }

// Sessions returns a copy of the active sessions in server order.
func (a *Activity) Sessions() []Session {
	out := make([]Session, len(a.sessions))
	copy(out, a.sessions)
	return out
}

// ActiveStreams counts sessions whose state is "playing".
func (a *Activity) ActiveStreams() int {
	count := 0
	for _, s := range a.sessions {
		if s.State == StatePlaying {
			count++
		}
	}
	return count
}

// Titles returns the session titles in server order.
func (a *Activity) Titles() []string {
	titles := make([]string, 0, len(a.sessions))
	for _, s := range a.sessions {
		titles = append(titles, s.Title)
	}
	return titles
}

// Summary returns the (friendly name, title, state) triple for every session.
func (a *Activity) Summary() []SessionSummary {
	out := make([]SessionSummary, 0, len(a.sessions))
	for _, s := range a.sessions {
		out = append(out, SessionSummary{Name: s.FriendlyName, Title: s.Title, State: s.State})
	}
	return out
}
