package cli

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/twitter/procsim/common/errors"
	cmdparse "github.com/twitter/procsim/sched/command"
)

type genCmd struct {
	count int
	seed  int64
}

func (c *genCmd) registerFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "gen",
		Short: "print a random valid command stream ending in T",
		Args:  cobra.NoArgs,
	}
	r.Flags().IntVar(&c.count, "count", 50, "number of commands before the final T")
	r.Flags().Int64Var(&c.seed, "seed", 0, "random seed, 0 picks one from the clock")
	return r
}

func (c *genCmd) run(cl *simpleCLIClient, cmd *cobra.Command, args []string) error {
	if c.count < 0 {
		return errors.Errorf(errors.UsageExitCode, "count must not be negative, got %d", c.count)
	}
	cfg, err := cl.loadConfig()
	if err != nil {
		return err
	}
	rng := cmdparse.NewRand()
	if c.seed != 0 {
		rng = rand.New(rand.NewSource(c.seed))
	}
	for _, line := range cmdparse.GenRandomStream(rng, c.count, cfg.Scheduler.Resources) {
		if _, err := fmt.Fprintln(cl.out, line); err != nil {
			return errors.NewError(err, errors.OutputFailureExitCode)
		}
	}
	return nil
}
