package queue

import (
	"github.com/twitter/procsim/sched/domain"
)

// Bank is a fixed set of FIFO lanes indexed by priority level.
// Dequeue always serves the lowest numbered nonempty lane, and within a lane
// strictly in arrival order.
//
// A Bank is not safe for concurrent use; the scheduler owns its banks and
// applies one command at a time.
type Bank struct {
	lanes [][]domain.PID
	total int
}

// NewBank returns a bank with the given number of lanes.
func NewBank(levels int) *Bank {
	if levels < 1 {
		levels = 1
	}
	return &Bank{lanes: make([][]domain.PID, levels)}
}

// Levels is the number of lanes.
func (b *Bank) Levels() int {
	return len(b.lanes)
}

func (b *Bank) inRange(level domain.Priority) bool {
	return level >= 0 && int(level) < len(b.lanes)
}

// Enqueue appends pid to the tail of lane level.
func (b *Bank) Enqueue(pid domain.PID, level domain.Priority) error {
	if !b.inRange(level) {
		return domain.NewError(domain.IndexOutOfRange, "priority level %d outside [0, %d)", level, len(b.lanes))
	}
	b.lanes[level] = append(b.lanes[level], pid)
	b.total++
	return nil
}

// Dequeue pops the head of the lowest numbered nonempty lane.
// The bool result is false, and the bank unchanged, when every lane is empty.
func (b *Bank) Dequeue() (domain.PID, bool) {
	for i, lane := range b.lanes {
		if len(lane) == 0 {
			continue
		}
		pid := lane[0]
		if len(lane) == 1 {
			b.lanes[i] = nil
		} else {
			b.lanes[i] = lane[1:]
		}
		b.total--
		return pid, true
	}
	return 0, false
}

// LaneSize returns the number of items in lane level, 0 for a lane that does not exist.
func (b *Bank) LaneSize(level domain.Priority) int {
	if !b.inRange(level) {
		return 0
	}
	return len(b.lanes[level])
}

// Len is the total number of items across all lanes.
func (b *Bank) Len() int {
	return b.total
}

// Snapshot returns a copy of lane level in queue order. The bank is not modified.
func (b *Bank) Snapshot(level domain.Priority) []domain.PID {
	if !b.inRange(level) {
		return nil
	}
	out := make([]domain.PID, len(b.lanes[level]))
	copy(out, b.lanes[level])
	return out
}

// Contains reports whether pid is queued in any lane.
func (b *Bank) Contains(pid domain.PID) bool {
	for _, lane := range b.lanes {
		for _, p := range lane {
			if p == pid {
				return true
			}
		}
	}
	return false
}

