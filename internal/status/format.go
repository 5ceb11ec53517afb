package status

import (
	"errors"
	"fmt"
	"strings"

	"oledstat/internal/display"
	"oledstat/internal/services/sabnzbd"
	"oledstat/internal/services/tautulli"
)

// ErrorText is drawn in place of the status lines when a tick fails.
const ErrorText = "Error"

// LineOffsets are the y offsets of the four status lines relative to the
// jittered origin: queue, time left, activity and an empty fourth line.
var LineOffsets = [display.LineCount]int{0, 7, 16, 24}

// Lines is the composed text for one successful tick.
type Lines struct {
	Queue    string
	TimeLeft string
	Activity string
}

// Array returns the lines in draw order with the empty fourth line.
func (l Lines) Array() [display.LineCount]string {
	return [display.LineCount]string{l.Queue, l.TimeLeft, l.Activity, ""}
}

// QueueLine renders "SAB <status> no queue|1 item|<n> items".
func QueueLine(q *sabnzbd.QueueState) string {
	switch n := q.ItemCount(); n {
	case 0:
		return fmt.Sprintf("SAB %s no queue", q.Status())
	case 1:
		return fmt.Sprintf("SAB %s 1 item", q.Status())
	default:
		return fmt.Sprintf("SAB %s %d items", q.Status(), n)
	}
}

// TimeLeftLine renders "<timeleft> remaining" while downloading and "" otherwise.
func TimeLeftLine(q *sabnzbd.QueueState) string {
	if !q.IsDownloading() {
		return ""
	}
	return q.TimeLeft() + " remaining"
}

// ActivityLine summarises the Tautulli sessions. A stream count of one with no
// session to describe is an error.
func ActivityLine(a *tautulli.Activity) (string, error) {
	switch a.StreamCount() {
	case 0:
		return "No streams", nil
	case 1:
		summary := a.Summary()
		if len(summary) == 0 {
			return "", errors.New("stream_count is 1 but no sessions were returned")
		}
		s := summary[0]
		return s.Name + " " + s.State + " " + s.Title, nil
	default:
		summary := a.Summary()
		names := make([]string, 0, len(summary))
		for _, s := range summary {
			names = append(names, s.Name)
		}
		return strings.Join(names, ", ") + " streaming now", nil
	}
}

// Compose builds all status lines from one pair of snapshots.
func Compose(q *sabnzbd.QueueState, a *tautulli.Activity) (Lines, error) {
	activity, err := ActivityLine(a)
	if err != nil {
		return Lines{}, err
	}
	return Lines{
		Queue:    QueueLine(q),
		TimeLeft: TimeLeftLine(q),
		Activity: activity,
	}, nil
}
