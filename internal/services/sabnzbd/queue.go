package sabnzbd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cast"
)

// StatusDownloading is the queue status reported while a job is transferring.
const StatusDownloading = "Downloading"

// QueueSlot describes one job in the queue. Fields are informational only;
// none of them is required for a QueueState to be built, and numbers or
// booleans are accepted where SABnzbd usually sends strings.
type QueueSlot struct {
	ID         string
	Filename   string
	Status     string
	Percentage string
	TimeLeft   string
	SizeLeft   string
}

// QueueState is a read-only projection of the `queue` object returned by
// mode=queue. It is built fresh for every poll.
type QueueState struct {
	status   string
	timeLeft string
	slots    []QueueSlot
	speed    string
	sizeLeft string
	paused   bool
}

type queueEnvelope struct {
	Queue *queuePayload `json:"queue"`
}

type queuePayload struct {
	Status   *string           `json:"status"`
	TimeLeft *string           `json:"timeleft"`
	Slots    *[]map[string]any `json:"slots"`
	Speed    any               `json:"speed"`
	SizeLeft any               `json:"sizeleft"`
	Paused   any               `json:"paused"`
}

// ParseQueue decodes a mode=queue response body. It fails when the `queue`
// object or any of its status, timeleft and slots keys is absent.
func ParseQueue(r io.Reader) (*QueueState, error) {
	var envelope queueEnvelope
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode queue: %w", err)
	}
	return newQueueState(envelope.Queue)
}

// newQueueState builds a QueueState from the decoded `queue` object.
func newQueueState(payload *queuePayload) (*QueueState, error) {
	if payload == nil {
		return nil, errors.New("response missing queue")
	}
	switch {
	case payload.Status == nil:
		return nil, errors.New("queue missing status")
	case payload.TimeLeft == nil:
		return nil, errors.New("queue missing timeleft")
	case payload.Slots == nil:
		return nil, errors.New("queue missing slots")
	}
	slots := make([]QueueSlot, 0, len(*payload.Slots))
	for _, item := range *payload.Slots {
		slots = append(slots, QueueSlot{
			ID:         cast.ToString(item["nzo_id"]),
			Filename:   cast.ToString(item["filename"]),
			Status:     cast.ToString(item["status"]),
			Percentage: cast.ToString(item["percentage"]),
			TimeLeft:   cast.ToString(item["timeleft"]),
			SizeLeft:   cast.ToString(item["sizeleft"]),
		})
	}
	return &QueueState{
		status:   *payload.Status,
		timeLeft: *payload.TimeLeft,
		slots:    slots,
		speed:    cast.ToString(payload.Speed),
		sizeLeft: cast.ToString(payload.SizeLeft),
		paused:   cast.ToBool(payload.Paused),
	}, nil
}

// Status returns the queue status string, e.g. "Downloading" or "Idle".
func (q *QueueState) Status() string { return q.status }

// ItemCount returns the number of jobs in the queue.
func (q *QueueState) ItemCount() int { return len(q.slots) }

// TimeLeft returns the server-formatted time remaining, e.g. "0:05:00".
func (q *QueueState) TimeLeft() string { return q.timeLeft }

// IsDownloading reports whether the queue is actively downloading.
func (q *QueueState) IsDownloading() bool { return q.status == StatusDownloading }

// Speed returns the current transfer speed as SABnzbd formats it, e.g. "12.3 M".
func (q *QueueState) Speed() string { return q.speed }

// SizeLeft returns the remaining download size, e.g. "1.2 GB".
func (q *QueueState) SizeLeft() string { return q.sizeLeft }

// Paused reports whether the whole queue is paused.
func (q *QueueState) Paused() bool { return q.paused }

// Slots returns a copy of the queued jobs.
func (q *QueueState) Slots() []QueueSlot {
	out := make([]QueueSlot, len(q.slots))
	copy(out, q.slots)
	return out
}
