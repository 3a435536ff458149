package commander

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twitter/procsim/common/stats"
	"github.com/twitter/procsim/sched/command"
	"github.com/twitter/procsim/sched/domain"
	"github.com/twitter/procsim/sched/report"
	"github.com/twitter/procsim/sched/scheduler"
)

type outcome struct {
	line     string
	rejected bool
	err      error
	result   scheduler.Result
}

type recordingListener struct {
	mu       sync.Mutex
	outcomes []outcome
}

func (l *recordingListener) Applied(line string, result scheduler.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, outcome{line: line, result: result})
}

func (l *recordingListener) Rejected(line string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, outcome{line: line, rejected: true, err: err})
}

func makeCommander(t *testing.T, config Config, l Listener) (*Commander, *scheduler.Engine) {
	e, err := scheduler.NewEngine(scheduler.DefaultSchedulerConfig(), nil, nil)
	require.NoError(t, err)
	return NewCommander(config, e, l, nil), e
}

func TestRun_AppliesInOrderAndStopsAfterSummarize(t *testing.T) {
	l := &recordingListener{}
	c, e := makeCommander(t, Config{}, l)

	input := "S 1 100 3\n\nQ\nQ\n  Q  \nP\nT\nS 2 1 1\nQ\n"
	rs, err := c.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, int64(6), rs.Lines)
	assert.Equal(t, int64(6), rs.Delivered)
	assert.Equal(t, int64(0), rs.Rejected)
	require.NotNil(t, rs.Summary)
	assert.Equal(t, 3.0, rs.Summary.AverageTurnaround)
	assert.True(t, e.Terminated())
	_, err = e.Process(2)
	assert.Error(t, err)

	require.Len(t, l.outcomes, 6)
	assert.Equal(t, "S 1 100 3", l.outcomes[0].line)
	assert.Equal(t, "Q", l.outcomes[3].line)
	assert.NotNil(t, l.outcomes[4].result.Snapshot)
	assert.NotNil(t, l.outcomes[5].result.Summary)

	state := c.State()
	assert.True(t, state.Done)
	assert.Equal(t, int64(3), state.Snapshot.Time)
	assert.Equal(t, int64(6), state.Delivered)
	assert.Equal(t, c.RunID(), state.RunID)
}

func TestRun_ReportsRejectionsAndContinues(t *testing.T) {
	l := &recordingListener{}
	c, _ := makeCommander(t, Config{}, l)

	input := "S 1 5 5\nX 1\nU 0\nB 9\nC D 0\nT\n"
	rs, err := c.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, int64(6), rs.Lines)
	assert.Equal(t, int64(4), rs.Delivered)
	assert.Equal(t, int64(4), rs.Rejected)

	require.Len(t, l.outcomes, 6)
	assert.True(t, domain.IsKind(l.outcomes[1].err, domain.MalformedCommand))
	assert.True(t, domain.IsKind(l.outcomes[2].err, domain.EmptyBlockedQueue))
	assert.True(t, domain.IsKind(l.outcomes[3].err, domain.IndexOutOfRange))
	assert.True(t, domain.IsKind(l.outcomes[4].err, domain.DivisionByZero))
	assert.False(t, l.outcomes[5].rejected)
}

func TestRun_StopOnReject(t *testing.T) {
	l := &recordingListener{}
	c, e := makeCommander(t, Config{StopOnReject: true}, l)

	rs, err := c.Run(context.Background(), strings.NewReader("S 1 5 5\nS 1 2\nQ\nT\n"))
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.MalformedCommand), "%v", err)
	assert.Equal(t, int64(2), rs.Lines)
	assert.Equal(t, int64(0), e.Time())
	assert.False(t, e.Terminated())
	assert.Nil(t, rs.Summary)
}

func TestRun_InputWithoutSummarize(t *testing.T) {
	c, e := makeCommander(t, Config{}, nil)
	rs, err := c.Run(context.Background(), strings.NewReader("S 1 5 5\nQ"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), rs.Delivered)
	assert.Nil(t, rs.Summary)
	assert.False(t, e.Terminated())
	assert.Equal(t, int64(1), e.Time())
}

func TestRun_Pacing(t *testing.T) {
	c, _ := makeCommander(t, Config{Pace: 20 * time.Millisecond, Burst: 1}, nil)
	start := time.Now()
	_, err := c.Run(context.Background(), strings.NewReader("S 1 5 5\nQ\nQ\nQ\nT\n"))
	require.NoError(t, err)
	// the first command uses the burst, the other four wait one pace each
	assert.True(t, time.Since(start) >= 60*time.Millisecond, "run took %s", time.Since(start))
}

func TestRun_Cancelled(t *testing.T) {
	c, _ := makeCommander(t, Config{Pace: time.Hour, Burst: 1}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	rs, err := c.Run(ctx, strings.NewReader("S 1 5 5\nQ\nT\n"))
	assert.Error(t, err)
	assert.Equal(t, int64(1), rs.Delivered)
}

func TestRun_GeneratedStream(t *testing.T) {
	lines := command.GenRandomStream(command.NewRand(), 300, scheduler.DefaultResources)
	c, e := makeCommander(t, Config{}, nil)
	rs, err := c.Run(context.Background(), strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Equal(t, int64(len(lines)), rs.Delivered)
	assert.True(t, e.Terminated())
	require.NotNil(t, rs.Summary)
}

func TestRun_Stats(t *testing.T) {
	statsRegistry := stats.NewFinagleStatsRegistry()
	statsReceiver := stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return statsRegistry })
	e, err := scheduler.NewEngine(scheduler.DefaultSchedulerConfig(), nil, nil)
	require.NoError(t, err)
	c := NewCommander(Config{}, e, nil, statsReceiver)

	_, err = c.Run(context.Background(), strings.NewReader("S 1 5 5\nbogus\nQ\nT\n"))
	require.NoError(t, err)
	stats.VerifyStats("commander", statsRegistry, t,
		map[string]stats.Rule{
			stats.CommanderLinesCounter:     {Checker: stats.Int64EqTest, Value: 4},
			stats.CommanderRejectedCounter:  {Checker: stats.Int64EqTest, Value: 1},
			stats.CommanderDeliveredCounter: {Checker: stats.Int64EqTest, Value: 3},
		})
}

func TestReportListener(t *testing.T) {
	var out bytes.Buffer
	c, _ := makeCommander(t, Config{}, NewReportListener(report.NewWriter(&out, report.Text)))
	_, err := c.Run(context.Background(), strings.NewReader("S 1 100 3\nU 0\nQ\nQ\nQ\nP\nT\n"))
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "ERROR: U 0")
	assert.Contains(t, s, "CURRENT TIME: 3")
	assert.Contains(t, s, "The average Turnaround Time: 3")
}
