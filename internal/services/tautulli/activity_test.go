package tautulli

import (
	"strings"
	"testing"
)

func TestParseActivityAcceptsStringAndNumberCounts(t *testing.T) {
	cases := map[string]string{
		"string": `{"response":{"result":"success","data":{"stream_count":"2","sessions":[]}}}`,
		"number": `{"response":{"result":"success","data":{"stream_count":2,"sessions":[]}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			activity, err := ParseActivity(strings.NewReader(body))
			if err != nil {
				t.Fatalf("ParseActivity returned error: %v", err)
			}
			if activity.StreamCount() != 2 {
				t.Fatalf("expected stream count 2, got %d", activity.StreamCount())
			}
		})
	}
}

func TestParseActivityProjectsSessions(t *testing.T) {
	body := `{"response":{"result":"success","data":{"stream_count":"3","sessions":[
		{"friendly_name":"Amy","title":"Movie X","state":"playing","session_key":12,"progress_percent":"40"},
		{"friendly_name":"Bob","title":"Show Y","state":"paused"},
		{"friendly_name":"Cy","title":"Song Z","state":"playing","media_type":"track"}
	]}}}`
	activity, err := ParseActivity(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseActivity returned error: %v", err)
	}

	summary := activity.Summary()
	if len(summary) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summary))
	}
	if summary[0] != (SessionSummary{Name: "Amy", Title: "Movie X", State: "playing"}) {
		t.Fatalf("unexpected first summary: %+v", summary[0])
	}
	if summary[1].Name != "Bob" || summary[2].Name != "Cy" {
		t.Fatalf("summary order not preserved: %+v", summary)
	}
	if got := activity.ActiveStreams(); got != 2 {
		t.Fatalf("expected 2 active streams, got %d", got)
	}
	if titles := activity.Titles(); strings.Join(titles, "|") != "Movie X|Show Y|Song Z" {
		t.Fatalf("unexpected titles: %v", titles)
	}
	sessions := activity.Sessions()
	if sessions[0].SessionKey != "12" || sessions[0].ProgressPercent != "40" {
		t.Fatalf("loose fields not converted: %+v", sessions[0])
	}
	sessions[0].Title = "mutated"
	if activity.Sessions()[0].Title != "Movie X" {
		t.Fatal("Sessions should return a copy")
	}
}

func TestParseActivityRejectsMissingKeys(t *testing.T) {
	cases := map[string]string{
		"no response":     `{}`,
		"no data":         `{"response":{"result":"success"}}`,
		"no sessions":     `{"response":{"data":{"stream_count":"0"}}}`,
		"no stream_count": `{"response":{"data":{"sessions":[]}}}`,
		"null count":      `{"response":{"data":{"stream_count":null,"sessions":[]}}}`,
		"no name":         `{"response":{"data":{"stream_count":"1","sessions":[{"title":"Movie X","state":"playing"}]}}}`,
		"no title":        `{"response":{"data":{"stream_count":"1","sessions":[{"friendly_name":"Amy","state":"playing"}]}}}`,
		"no state":        `{"response":{"data":{"stream_count":"2","sessions":[{"friendly_name":"Amy","title":"A","state":"playing"},{"friendly_name":"Bob","title":"B"}]}}}`,
		"bad count":       `{"response":{"data":{"stream_count":"many","sessions":[]}}}`,
		"negative count":  `{"response":{"data":{"stream_count":-1,"sessions":[]}}}`,
		"not json":        `<html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseActivity(strings.NewReader(body)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestParseActivitySurfacesServerMessage(t *testing.T) {
	body := `{"response":{"result":"error","message":"Invalid apikey","data":{}}}`
	_, err := ParseActivity(strings.NewReader(body))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid apikey") {
		t.Fatalf("expected server message in error, got %v", err)
	}
}
