package status

import (
	"strings"
	"testing"

	"oledstat/internal/services/sabnzbd"
	"oledstat/internal/services/tautulli"
)

func queueState(t *testing.T, body string) *sabnzbd.QueueState {
	t.Helper()
	state, err := sabnzbd.ParseQueue(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseQueue: %v", err)
	}
	return state
}

func activity(t *testing.T, body string) *tautulli.Activity {
	t.Helper()
	a, err := tautulli.ParseActivity(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseActivity: %v", err)
	}
	return a
}

func TestQueueLineSuffixFollowsSlotCount(t *testing.T) {
	cases := []struct {
		slots string
		want  string
	}{
		{`[]`, "SAB Idle no queue"},
		{`[{"filename":"a"}]`, "SAB Idle 1 item"},
		{`[{"filename":"a"},{"filename":"b"},{"filename":"c"}]`, "SAB Idle 3 items"},
	}
	for _, tc := range cases {
		q := queueState(t, `{"queue":{"status":"Idle","timeleft":"0:00:00","slots":`+tc.slots+`}}`)
		if got := QueueLine(q); got != tc.want {
			t.Errorf("QueueLine(%s) = %q, want %q", tc.slots, got, tc.want)
		}
	}
}

func TestTimeLeftLine(t *testing.T) {
	downloading := queueState(t, `{"queue":{"status":"Downloading","timeleft":"00:05:00","slots":[{"filename":"a"}]}}`)
	if got := TimeLeftLine(downloading); got != "00:05:00 remaining" {
		t.Fatalf("unexpected downloading line %q", got)
	}
	paused := queueState(t, `{"queue":{"status":"Paused","timeleft":"00:05:00","slots":[{"filename":"a"}]}}`)
	if got := TimeLeftLine(paused); got != "" {
		t.Fatalf("expected empty line when not downloading, got %q", got)
	}
}

func TestActivityLine(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "no streams",
			body: `{"response":{"data":{"stream_count":"0","sessions":[]}}}`,
			want: "No streams",
		},
		{
			name: "single",
			body: `{"response":{"data":{"stream_count":"1","sessions":[{"friendly_name":"Amy","title":"Movie X","state":"playing"}]}}}`,
			want: "Amy playing Movie X",
		},
		{
			name: "several",
			body: `{"response":{"data":{"stream_count":"2","sessions":[{"friendly_name":"Amy","title":"A","state":"playing"},{"friendly_name":"Bob","title":"B","state":"paused"}]}}}`,
			want: "Amy, Bob streaming now",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ActivityLine(activity(t, tc.body))
			if err != nil {
				t.Fatalf("ActivityLine: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestActivityLineSingleStreamWithoutSession(t *testing.T) {
	a := activity(t, `{"response":{"data":{"stream_count":1,"sessions":[]}}}`)
	if _, err := ActivityLine(a); err == nil {
		t.Fatal("expected error when the only stream has no session")
	}
}

func TestComposeOrdersLines(t *testing.T) {
	q := queueState(t, `{"queue":{"status":"Downloading","timeleft":"01:00:00","slots":[{"filename":"a"},{"filename":"b"}]}}`)
	a := activity(t, `{"response":{"data":{"stream_count":0,"sessions":[]}}}`)
	lines, err := Compose(q, a)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := [4]string{"SAB Downloading 2 items", "01:00:00 remaining", "No streams", ""}
	if lines.Array() != want {
		t.Fatalf("got %q, want %q", lines.Array(), want)
	}
}
