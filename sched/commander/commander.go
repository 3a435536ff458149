package commander

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	uuid "github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/twitter/procsim/common/stats"
	"github.com/twitter/procsim/sched/command"
	"github.com/twitter/procsim/sched/domain"
	"github.com/twitter/procsim/sched/scheduler"
)

// Config controls how the producer delivers commands.
// Pace - minimum spacing between delivered commands, 0 delivers as fast as
// the engine consumes them.
// Burst - how many commands may be delivered back to back before pacing applies.
// StopOnReject - stop reading input at the first line the producer rejects.
type Config struct {
	Pace         time.Duration
	Burst        int
	StopOnReject bool
}

func (c Config) String() string {
	return fmt.Sprintf("CommanderConfig: Pace: %s, Burst: %d, StopOnReject: %t", c.Pace, c.Burst, c.StopOnReject)
}

// Listener is told the outcome of every line, in input order, from the
// consumer goroutine.
type Listener interface {
	Applied(line string, result scheduler.Result)
	Rejected(line string, err error)
}

// RunStats counts what happened to the input of one run.
type RunStats struct {
	Lines     int64
	Delivered int64
	Rejected  int64
	Summary   *scheduler.Summary
}

// State is the latest consistent view of a run, taken between two commands.
type State struct {
	RunID     string             `json:"runId"`
	Snapshot  scheduler.Snapshot `json:"snapshot"`
	Summary   scheduler.Summary  `json:"summary"`
	Delivered int64              `json:"delivered"`
	Done      bool               `json:"done"`
}

// delivery is one unit handed from the producer to the consumer. Exactly one
// of cmd or err is meaningful.
type delivery struct {
	lineNo int
	line   string
	cmd    domain.Command
	err    error
}

// Commander runs a producer goroutine that validates input lines and a
// consumer that applies them one at a time to a single engine.
type Commander struct {
	config   Config
	engine   *scheduler.Engine
	parser   *command.Parser
	listener Listener
	stat     stats.StatsReceiver
	runID    string

	mu    sync.RWMutex
	state State
}

func NewCommander(config Config, engine *scheduler.Engine, listener Listener, stat stats.StatsReceiver) *Commander {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	c := &Commander{
		config:   config,
		engine:   engine,
		parser:   command.NewParser(engine.Config().Resources),
		listener: listener,
		stat:     stat,
		runID:    generateRunId(),
	}
	c.state = State{RunID: c.runID, Snapshot: engine.Snapshot(), Summary: engine.Summary()}
	return c
}

func generateRunId() string {
	id, err := uuid.NewV4()
	for err != nil {
		id, err = uuid.NewV4()
	}
	return id.String()
}

func (c *Commander) RunID() string {
	return c.runID
}

// State returns a copy of the latest published state. Safe to call from any goroutine.
func (c *Commander) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Run reads commands from in until T is applied, the input ends, or ctx is
// done. Engine rejections are reported to the listener and the run goes on.
// A producer rejection stops the run only when StopOnReject is set, and is
// then returned as the error.
func (c *Commander) Run(ctx context.Context, in io.Reader) (RunStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.WithFields(log.Fields{
		"runId":  c.runID,
		"config": c.config,
	}).Info("starting simulation run")

	deliveries := make(chan delivery)
	producerErr := make(chan error, 1)
	go func() {
		producerErr <- c.produce(ctx, in, deliveries)
		close(deliveries)
	}()

	var rs RunStats
	for d := range deliveries {
		rs.Lines++
		if d.err != nil {
			rs.Rejected++
			c.reject(d, d.err)
			continue
		}
		rs.Delivered++
		c.stat.Counter(stats.CommanderDeliveredCounter).Inc(1)
		result, err := c.engine.Apply(d.cmd)
		if err != nil {
			rs.Rejected++
			c.reject(d, err)
		} else {
			if result.Summary != nil {
				rs.Summary = result.Summary
			}
			if c.listener != nil {
				c.listener.Applied(d.line, result)
			}
		}
		c.publish(rs.Delivered)
	}

	err := <-producerErr
	c.mu.Lock()
	c.state.Done = true
	c.mu.Unlock()

	log.WithFields(log.Fields{
		"runId":     c.runID,
		"lines":     rs.Lines,
		"delivered": rs.Delivered,
		"rejected":  rs.Rejected,
		"tick":      c.engine.Time(),
	}).Info("simulation run finished")
	return rs, err
}

// produce validates lines and sends them one at a time. It returns after
// sending T, at the end of input, or on the first rejection when StopOnReject is set.
func (c *Commander) produce(ctx context.Context, in io.Reader, out chan<- delivery) error {
	var limiter *rate.Limiter
	if c.config.Pace > 0 {
		burst := c.config.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Every(c.config.Pace), burst)
	}

	send := func(d delivery) error {
		select {
		case out <- d:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.stat.Counter(stats.CommanderLinesCounter).Inc(1)

		cmd, err := c.parser.Parse(line)
		if err != nil {
			c.stat.Counter(stats.CommanderRejectedCounter).Inc(1)
			if sendErr := send(delivery{lineNo: lineNo, line: line, err: err}); sendErr != nil {
				return sendErr
			}
			if c.config.StopOnReject {
				return errors.Wrapf(err, "stopped at input line %d", lineNo)
			}
			continue
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return errors.Wrap(err, "pacing commands")
			}
		}
		if err := send(delivery{lineNo: lineNo, line: line, cmd: cmd}); err != nil {
			return err
		}
		if cmd.Type == domain.SummarizeCmd {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading commands")
	}
	log.Infof("input ended after %d lines without a summarize command", lineNo)
	return nil
}

func (c *Commander) reject(d delivery, err error) {
	log.WithFields(log.Fields{
		"runId": c.runID,
		"line":  d.lineNo,
	}).Debugf("rejected %q: %v", d.line, err)
	if c.listener != nil {
		c.listener.Rejected(d.line, err)
	}
}

func (c *Commander) publish(delivered int64) {
	snap := c.engine.Snapshot()
	sum := c.engine.Summary()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Snapshot = snap
	c.state.Summary = sum
	c.state.Delivered = delivered
}
