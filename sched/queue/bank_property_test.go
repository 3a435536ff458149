package queue

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/twitter/procsim/sched/domain"
)

// Dequeue order must equal a stable sort of the enqueued items by level.
func Test_BankDequeueOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("lowest lane first, FIFO within a lane", prop.ForAll(
		func(levels []int) bool {
			b := NewBank(4)
			expected := make([][]domain.PID, 4)
			for i, l := range levels {
				if err := b.Enqueue(domain.PID(i), domain.Priority(l)); err != nil {
					return false
				}
				expected[l] = append(expected[l], domain.PID(i))
			}
			if b.Len() != len(levels) {
				return false
			}
			for _, lane := range expected {
				for _, want := range lane {
					got, ok := b.Dequeue()
					if !ok || got != want {
						return false
					}
				}
			}
			_, ok := b.Dequeue()
			return !ok && b.Len() == 0
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}
