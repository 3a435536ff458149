package hooks

import (
	"runtime"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const modulePrefix = "procsim/"

// contextHook tags every entry with the file:line of the code that logged it.
type contextHook struct {
	// frames belonging to logrus itself and to this hook are skipped
	skip []string
}

func NewContextHook() contextHook {
	return contextHook{skip: []string{"sirupsen/logrus", "common/log/hooks/context_hook.go"}}
}

func (hook contextHook) Levels() []log.Level {
	return log.AllLevels
}

func (hook contextHook) Fire(entry *log.Entry) error {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !hook.skipped(frame.File) {
			entry.Data["file:line"] = trimFile(frame.File) + ":" + strconv.Itoa(frame.Line)
			return nil
		}
		if !more {
			return nil
		}
	}
}

func (hook contextHook) skipped(file string) bool {
	for _, s := range hook.skip {
		if strings.Contains(file, s) {
			return true
		}
	}
	return false
}

func trimFile(file string) string {
	parts := strings.Split(file, modulePrefix)
	return parts[len(parts)-1]
}
