package journal

import (
	"fmt"

	"github.com/twitter/procsim/sched/domain"
)

//go:generate mockgen -source=journal.go -package=journal -destination=journal_mock.go

type EventType int

const (
	Admitted EventType = iota
	Dispatched
	Preempted
	Blocked
	Unblocked
	Completed
	Computed
	Idle
	Rejected
	Summarized
)

var eventNames = map[EventType]string{
	Admitted:   "admitted",
	Dispatched: "dispatched",
	Preempted:  "preempted",
	Blocked:    "blocked",
	Unblocked:  "unblocked",
	Completed:  "completed",
	Computed:   "computed",
	Idle:       "idle",
	Rejected:   "rejected",
	Summarized: "summarized",
}

func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

/*
 * One scheduling transition. Time is the engine's logical time when the
 * transition happened. PID and Priority are zero for events with no process
 * (Idle, Rejected, Summarized); Resource is only set for Blocked/Unblocked.
 */
type Event struct {
	Time     int64           `json:"time"`
	Type     EventType       `json:"type"`
	PID      domain.PID      `json:"pid"`
	Priority domain.Priority `json:"priority"`
	Resource int             `json:"resource,omitempty"`
	Detail   string          `json:"detail,omitempty"`
}

func (e Event) String() string {
	return fmt.Sprintf("t=%d %s pid:%d priority:%d %s", e.Time, e.Type, e.PID, e.Priority, e.Detail)
}

/*
 * Journal records the transitions of one simulation run, in order.
 * It is not durable; a run starts with an empty journal.
 */
type Journal interface {
	/*
	 * Append an event. Implementations must not block the caller.
	 */
	Record(e Event)

	/*
	 * A copy of the retained events, oldest first.
	 */
	Events() []Event
}
