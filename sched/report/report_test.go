package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twitter/procsim/sched/domain"
	"github.com/twitter/procsim/sched/scheduler"
)

func makeSnapshot(t *testing.T) scheduler.Snapshot {
	e, err := scheduler.NewEngine(scheduler.DefaultSchedulerConfig(), nil, nil)
	require.NoError(t, err)
	for _, cmd := range []domain.Command{
		domain.Admit(1, 10, 5),
		domain.Admit(2, 20, 5),
		domain.Admit(3, 30, 5),
		domain.Tick(),
		domain.Block(1),
		domain.Admit(4, 40, 5),
	} {
		_, err := e.Apply(cmd)
		require.NoError(t, err)
	}
	return e.Snapshot()
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	assert.NoError(t, err)
	assert.Equal(t, JSON, f)
	f, err = ParseFormat("")
	assert.NoError(t, err)
	assert.Equal(t, Text, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestSnapshotText(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewWriter(&out, Text).Snapshot(makeSnapshot(t)))
	s := out.String()

	assert.Contains(t, s, "CURRENT TIME: 1")
	assert.Contains(t, s, "RUNNING PROCESS:")
	assert.Contains(t, s, "Queue of processes Blocked for resource 0 is empty")
	assert.Contains(t, s, "Queue of processes Blocked for resource 1:")
	assert.Contains(t, s, "Queue of processes Blocked for resource 2 is empty")
	assert.Contains(t, s, "Queue of processes with priority 0:")
	assert.Contains(t, s, "Queue of processes with priority 1:")
	assert.Contains(t, s, "Queue of processes with priority 3 is empty")
	assert.Contains(t, s, "Total CPU time")

	// blocked section lists before the ready section
	assert.True(t, strings.Index(s, "BLOCKED PROCESS:") < strings.Index(s, "PROCESSES READY TO EXECUTE:"))
}

func TestSnapshotTextWithNothingRunning(t *testing.T) {
	e, err := scheduler.NewEngine(scheduler.DefaultSchedulerConfig(), nil, nil)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, NewWriter(&out, Text).Snapshot(e.Snapshot()))
	assert.Contains(t, out.String(), "RUNNING PROCESS:\nNone\n")
}

func TestSnapshotJSON(t *testing.T) {
	snap := makeSnapshot(t)
	var out bytes.Buffer
	require.NoError(t, NewWriter(&out, JSON).Snapshot(snap))

	var decoded struct {
		Kind     string             `json:"kind"`
		Snapshot scheduler.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "snapshot", decoded.Kind)
	assert.Equal(t, snap.Time, decoded.Snapshot.Time)
	require.NotNil(t, decoded.Snapshot.Running)
	assert.Equal(t, snap.Running.PID, decoded.Snapshot.Running.PID)
	assert.Len(t, decoded.Snapshot.Blocked, 3)
}

func TestSummary(t *testing.T) {
	sum := scheduler.Summary{Completed: 2, TurnaroundSum: 3, AverageTurnaround: 1.5}

	var text bytes.Buffer
	require.NoError(t, NewWriter(&text, Text).Summary(sum))
	assert.Contains(t, text.String(), "The average Turnaround Time: 1.5")
	assert.Contains(t, text.String(), "2 processes finished in a total of 3 time units")

	var js bytes.Buffer
	require.NoError(t, NewWriter(&js, JSON).Summary(sum))
	assert.Contains(t, js.String(), `"averageTurnaround":1.5`)
}

func TestRejection(t *testing.T) {
	cause := domain.NewError(domain.EmptyBlockedQueue, "no process is blocked on resource 0")

	var text bytes.Buffer
	require.NoError(t, NewWriter(&text, Text).Rejection("U 0", cause))
	assert.True(t, strings.HasPrefix(text.String(), "ERROR: U 0"))

	var js bytes.Buffer
	require.NoError(t, NewWriter(&js, JSON).Rejection("U 0", cause))
	assert.Contains(t, js.String(), `"code":"EmptyBlockedQueue"`)
}
