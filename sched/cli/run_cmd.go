package cli

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twitter/procsim/common/endpoints"
	"github.com/twitter/procsim/common/errors"
	"github.com/twitter/procsim/common/stats"
	"github.com/twitter/procsim/sched/commander"
	"github.com/twitter/procsim/sched/domain"
	"github.com/twitter/procsim/sched/journal"
	"github.com/twitter/procsim/sched/report"
	"github.com/twitter/procsim/sched/scheduler"
)

type runCmd struct {
	input       string
	format      string
	httpAddr    string
	journalPath string
}

func (c *runCmd) registerFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "run",
		Short: "run a command stream through the scheduler",
		Args:  cobra.NoArgs,
	}
	r.Flags().StringVar(&c.input, "input", stdinName, "file to read commands from, - for stdin")
	r.Flags().StringVar(&c.format, "format", "text", "report format (text|json)")
	r.Flags().StringVar(&c.httpAddr, "http_addr", "", "serve /health, /admin/metrics.json and /state on this address while running")
	r.Flags().StringVar(&c.journalPath, "journal", "", "write the transition journal as json lines to this file when the run ends")
	return r
}

func (c *runCmd) run(cl *simpleCLIClient, cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(c.format)
	if err != nil {
		return errors.NewError(err, errors.UsageExitCode)
	}
	cfg, err := cl.loadConfig()
	if err != nil {
		return err
	}
	schedConfig, err := cfg.Scheduler.CreateSchedulerConfig()
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	cmdrConfig, err := cfg.Commander.CreateCommanderConfig()
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	j, err := cfg.Journal.CreateJournal()
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}

	in, closeInput, err := cl.openInput(c.input)
	if err != nil {
		return err
	}
	defer closeInput()

	stat := stats.DefaultStatsReceiver()
	engine, err := scheduler.NewEngine(schedConfig, j, stat.Scope("scheduler"))
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	listener := commander.NewReportListener(report.NewWriter(cl.out, format))
	cmdr := commander.NewCommander(cmdrConfig, engine, listener, stat.Scope("commander"))

	if c.httpAddr != "" {
		server := endpoints.NewTwitterServer(c.httpAddr, stat, func() interface{} { return cmdr.State() })
		if _, err := server.Start(); err != nil {
			return errors.NewError(err, errors.ServerFailureExitCode)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Stop(ctx)
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			log.Info("interrupted, stopping run")
			cancel()
		case <-ctx.Done():
		}
	}()

	_, runErr := cmdr.Run(ctx, in)

	if c.journalPath != "" {
		if err := writeJournal(c.journalPath, j); err != nil {
			return errors.NewError(err, errors.OutputFailureExitCode)
		}
	}
	if runErr != nil {
		if domain.KindOf(runErr) != 0 {
			return errors.NewError(runErr, errors.RejectedInputExitCode)
		}
		return errors.NewError(runErr, errors.InputFailureExitCode)
	}
	return nil
}

func writeJournal(path string, j journal.Journal) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for _, ev := range j.Events() {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	if dropped := journal.Dropped(j); dropped > 0 {
		log.Warnf("journal dropped %d early events, only the last %d were written", dropped, len(j.Events()))
	}
	return nil
}
