package journal

import (
	"sync"
)

/*
 * In memory Journal. When capacity is > 0 only the most recent capacity
 * events are kept, older ones are dropped.
 */
type inMemoryJournal struct {
	events   []Event
	capacity int
	dropped  int
	mutex    sync.RWMutex
}

func MakeInMemoryJournal(capacity int) Journal {
	return &inMemoryJournal{
		events:   make([]Event, 0),
		capacity: capacity,
	}
}

func (j *inMemoryJournal) Record(e Event) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if j.capacity > 0 && len(j.events) >= j.capacity {
		j.events = append(j.events[1:], e)
		j.dropped++
		return
	}
	j.events = append(j.events, e)
}

func (j *inMemoryJournal) Events() []Event {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	out := make([]Event, len(j.events))
	copy(out, j.events)
	return out
}

// Dropped returns how many events were evicted because of the capacity limit.
func Dropped(j Journal) int {
	if mj, ok := j.(*inMemoryJournal); ok {
		mj.mutex.RLock()
		defer mj.mutex.RUnlock()
		return mj.dropped
	}
	return 0
}

type nopJournal struct{}

// MakeNopJournal returns a Journal that discards everything.
func MakeNopJournal() Journal {
	return nopJournal{}
}

func (nopJournal) Record(e Event)  {}
func (nopJournal) Events() []Event { return nil }
