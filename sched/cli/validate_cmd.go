package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twitter/procsim/common/errors"
	cmdparse "github.com/twitter/procsim/sched/command"
	"github.com/twitter/procsim/sched/report"
)

type validateCmd struct {
	input string
}

func (c *validateCmd) registerFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "validate",
		Short: "check a command stream against the command grammar without running it",
		Args:  cobra.NoArgs,
	}
	r.Flags().StringVar(&c.input, "input", stdinName, "file to read commands from, - for stdin")
	return r
}

func (c *validateCmd) run(cl *simpleCLIClient, cmd *cobra.Command, args []string) error {
	cfg, err := cl.loadConfig()
	if err != nil {
		return err
	}
	in, closeInput, err := cl.openInput(c.input)
	if err != nil {
		return err
	}
	defer closeInput()

	parser := cmdparse.NewParser(cfg.Scheduler.Resources)
	w := report.NewWriter(cl.out, report.Text)
	scanner := bufio.NewScanner(in)
	lines, rejected := 0, 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines++
		if err := parser.Validate(line); err != nil {
			rejected++
			if err := w.Rejection(line, err); err != nil {
				return errors.NewError(err, errors.OutputFailureExitCode)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.NewError(err, errors.InputFailureExitCode)
	}

	if _, err := fmt.Fprintf(cl.out, "%d lines, %d rejected\n", lines, rejected); err != nil {
		return errors.NewError(err, errors.OutputFailureExitCode)
	}
	if rejected > 0 {
		return errors.Errorf(errors.RejectedInputExitCode, "%d of %d lines rejected", rejected, lines)
	}
	return nil
}
