package domain

import (
	"fmt"
)

// PID identifies a simulated process. Ids are chosen by the command producer
// and are never reused while the process is live.
type PID int

// Priority is a ready lane index. 0 is the most urgent level.
type Priority int

// ProcessRecord holds the scheduling state of one process.
//
// StartTime and EndTime are logical ticks. CPUTime counts the ticks the
// process has spent in the running slot, RunTime is the total it needs.
type ProcessRecord struct {
	PID       PID      `json:"pid"`
	Priority  Priority `json:"priority"`
	Value     int64    `json:"value"`
	StartTime int64    `json:"startTime"`
	CPUTime   int64    `json:"cpuTime"`
	RunTime   int64    `json:"runTime"`
	Completed bool     `json:"completed"`
	EndTime   int64    `json:"endTime,omitempty"`
}

// NewProcessRecord returns a fresh record admitted at the given tick.
func NewProcessRecord(pid PID, value, runTime, now int64) *ProcessRecord {
	return &ProcessRecord{
		PID:       pid,
		Value:     value,
		StartTime: now,
		RunTime:   runTime,
	}
}

// Finished reports whether the process has consumed all of its run time.
func (p *ProcessRecord) Finished() bool {
	return p.CPUTime >= p.RunTime
}

// Turnaround is only meaningful once Completed is set.
func (p *ProcessRecord) Turnaround() int64 {
	return p.EndTime - p.StartTime
}

// DecrementPriority moves the process one level toward 0. It is a no-op at 0.
func (p *ProcessRecord) DecrementPriority() {
	if p.Priority > 0 {
		p.Priority--
	}
}

// IncrementPriority moves the process one level up, stopping at top.
func (p *ProcessRecord) IncrementPriority(top Priority) {
	if p.Priority < top {
		p.Priority++
	}
}

func (p ProcessRecord) String() string {
	return fmt.Sprintf("pid:%d priority:%d value:%d start:%d cpu:%d/%d",
		p.PID, p.Priority, p.Value, p.StartTime, p.CPUTime, p.RunTime)
}
