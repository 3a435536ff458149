package command

import (
	"math/rand"
	"time"

	"github.com/leanovate/gopter"

	"github.com/twitter/procsim/sched/domain"
)

// generates a new random number seeded with the current time
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Pids are drawn from a small range so streams exercise duplicate admission
// and re-admission of completed processes.
const genPidRange = 8

// Generates a random well formed command, never Summarize.
// Resource ids stay below resources.
func GenRandomCommand(rng *rand.Rand, resources int) domain.Command {
	if resources < 1 {
		resources = 1
	}
	switch n := rng.Intn(100); {
	case n < 25:
		return domain.Admit(domain.PID(rng.Intn(genPidRange)), rng.Int63n(1000), rng.Int63n(12))
	case n < 55:
		return domain.Tick()
	case n < 67:
		return domain.Block(rng.Intn(resources))
	case n < 82:
		return domain.Unblock(rng.Intn(resources))
	case n < 95:
		return domain.Compute(domain.ComputeOp(rng.Intn(4)), rng.Int63n(10))
	}
	return domain.Report()
}

// Generates a random command stream of n commands terminated by T,
// rendered in its line form.
func GenRandomStream(rng *rand.Rand, n int, resources int) []string {
	lines := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		lines = append(lines, GenRandomCommand(rng, resources).String())
	}
	return append(lines, domain.Summarize().String())
}

// GenCommands is a gopter generator of unterminated command sequences of up to
// maxLen commands.
func GenCommands(maxLen int, resources int) gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		n := genParams.Rng.Intn(maxLen + 1)
		cmds := make([]domain.Command, 0, n)
		for i := 0; i < n; i++ {
			cmds = append(cmds, GenRandomCommand(genParams.Rng, resources))
		}
		return gopter.NewGenResult(cmds, gopter.NoShrinker)
	}
}
