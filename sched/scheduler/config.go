package scheduler

import (
	"fmt"

	"github.com/twitter/procsim/sched/domain"
)

// Quantum lengths for levels 0..3 used when no configuration is given.
var DefaultQuanta = []int{1, 2, 4, 8}

// Number of blockable resources used when no configuration is given.
const DefaultResources = 3

// SchedulerConfig holds the engine's tunables.
// Quanta - quantum per priority level, its length is the number of levels.
// Resources - number of blocked banks, valid resource ids are [0, Resources).
// MaxPid - when > 0 pids must be < MaxPid, 0 means unbounded.
type SchedulerConfig struct {
	Quanta    []int
	Resources int
	MaxPid    int
}

func DefaultSchedulerConfig() SchedulerConfig {
	q := make([]int, len(DefaultQuanta))
	copy(q, DefaultQuanta)
	return SchedulerConfig{Quanta: q, Resources: DefaultResources}
}

func (c SchedulerConfig) Levels() int {
	return len(c.Quanta)
}

// Quantum returns the budget for a dispatch at priority p.
func (c SchedulerConfig) Quantum(p domain.Priority) int64 {
	return int64(c.Quanta[p])
}

func (c SchedulerConfig) Validate() error {
	if len(c.Quanta) == 0 {
		return fmt.Errorf("scheduler config needs at least one priority level")
	}
	for i, q := range c.Quanta {
		if q < 1 {
			return fmt.Errorf("quantum for level %d must be positive, got %d", i, q)
		}
	}
	if c.Resources < 0 {
		return fmt.Errorf("resources must not be negative, got %d", c.Resources)
	}
	if c.MaxPid < 0 {
		return fmt.Errorf("max pid must not be negative, got %d", c.MaxPid)
	}
	return nil
}

func (c SchedulerConfig) String() string {
	return fmt.Sprintf("SchedulerConfig: Quanta: %v, Resources: %d, MaxPid: %d", c.Quanta, c.Resources, c.MaxPid)
}
