package commander

import (
	log "github.com/sirupsen/logrus"

	"github.com/twitter/procsim/sched/report"
	"github.com/twitter/procsim/sched/scheduler"
)

// ReportListener renders reports, summaries and rejections with a report.Writer.
type ReportListener struct {
	w *report.Writer
}

func NewReportListener(w *report.Writer) *ReportListener {
	return &ReportListener{w: w}
}

func (l *ReportListener) Applied(line string, result scheduler.Result) {
	var err error
	switch {
	case result.Snapshot != nil:
		err = l.w.Snapshot(*result.Snapshot)
	case result.Summary != nil:
		err = l.w.Summary(*result.Summary)
	}
	if err != nil {
		log.Errorf("couldn't write output for %q: %v", line, err)
	}
}

func (l *ReportListener) Rejected(line string, cause error) {
	if err := l.w.Rejection(line, cause); err != nil {
		log.Errorf("couldn't write rejection for %q: %v", line, err)
	}
}
