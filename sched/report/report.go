// Package report renders engine snapshots and summaries for people (text
// tables) and for programs (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/twitter/procsim/sched/domain"
	"github.com/twitter/procsim/sched/scheduler"
)

type Format int

const (
	Text Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "text"
}

// ParseFormat accepts "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	}
	return Text, fmt.Errorf("unknown report format %q, want text or json", s)
}

var header = []string{"PID", "Priority", "Value", "Start Time", "Total CPU time", "Run Time"}

const rule = "*****************************************************"

// Writer renders to one output in one format.
type Writer struct {
	out    io.Writer
	format Format
}

func NewWriter(out io.Writer, format Format) *Writer {
	return &Writer{out: out, format: format}
}

// Snapshot writes the system state: time, the running process, every blocked
// resource queue and every ready lane.
func (w *Writer) Snapshot(snap scheduler.Snapshot) error {
	if w.format == JSON {
		return w.json(struct {
			Kind     string             `json:"kind"`
			Snapshot scheduler.Snapshot `json:"snapshot"`
		}{"snapshot", snap})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nThe current system state is as follows :\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "CURRENT TIME: %d\n\n", snap.Time)

	b.WriteString("RUNNING PROCESS:\n")
	if snap.Running == nil {
		b.WriteString("None\n")
	} else {
		table(&b, []domain.ProcessRecord{*snap.Running})
	}

	b.WriteString("BLOCKED PROCESS:\n")
	for _, rq := range snap.Blocked {
		if rq.Empty() {
			fmt.Fprintf(&b, "Queue of processes Blocked for resource %d is empty\n", rq.Resource)
			continue
		}
		fmt.Fprintf(&b, "Queue of processes Blocked for resource %d:\n", rq.Resource)
		table(&b, rq.Waiting())
	}
	b.WriteString("\n")

	b.WriteString("PROCESSES READY TO EXECUTE:\n")
	for _, lane := range snap.Ready {
		if len(lane.Processes) == 0 {
			fmt.Fprintf(&b, "Queue of processes with priority %d is empty\n", lane.Priority)
			continue
		}
		fmt.Fprintf(&b, "Queue of processes with priority %d:\n", lane.Priority)
		table(&b, lane.Processes)
	}
	fmt.Fprintf(&b, "%s\n\n", rule)

	_, err := io.WriteString(w.out, b.String())
	return err
}

// Summary writes the turnaround statistics.
func (w *Writer) Summary(sum scheduler.Summary) error {
	if w.format == JSON {
		return w.json(struct {
			Kind    string            `json:"kind"`
			Summary scheduler.Summary `json:"summary"`
		}{"summary", sum})
	}
	_, err := fmt.Fprintf(w.out,
		"The average Turnaround Time: %s\n\nExtra information you might want to know:\n%d processes finished in a total of %d time units\n",
		strconv.FormatFloat(sum.AverageTurnaround, 'f', -1, 64), sum.Completed, sum.TurnaroundSum)
	return err
}

// Rejection writes a command the producer or the engine refused.
func (w *Writer) Rejection(line string, cause error) error {
	if w.format == JSON {
		return w.json(struct {
			Kind  string `json:"kind"`
			Line  string `json:"line"`
			Error string `json:"error"`
			Code  string `json:"code,omitempty"`
		}{"rejection", line, cause.Error(), codeOf(cause)})
	}
	_, err := fmt.Fprintf(w.out, "ERROR: %s (%v)\n", line, cause)
	return err
}

func codeOf(err error) string {
	if k := domain.KindOf(err); k != 0 {
		return k.String()
	}
	return ""
}

func (w *Writer) json(v interface{}) error {
	return json.NewEncoder(w.out).Encode(v)
}

func table(out io.Writer, recs []domain.ProcessRecord) {
	t := tablewriter.NewWriter(out)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range recs {
		t.Append([]string{
			strconv.Itoa(int(r.PID)),
			strconv.Itoa(int(r.Priority)),
			strconv.FormatInt(r.Value, 10),
			strconv.FormatInt(r.StartTime, 10),
			strconv.FormatInt(r.CPUTime, 10),
			strconv.FormatInt(r.RunTime, 10),
		})
	}
	t.Render()
}
