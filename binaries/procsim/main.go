package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/procsim/common/errors"
	"github.com/twitter/procsim/common/log/hooks"
	"github.com/twitter/procsim/sched/cli"
)

// Process scheduler simulator
//	Supported commands: (see "-h" for all options)
//		run [--input file] [--format text|json] [--http_addr host:port] [--journal file]
//		validate [--input file]
//		gen [--count n] [--seed n]
//		configs [name]
//	Global flags:
//		--config [<default|classic|wide>, a .json file, or literal json]
// 		--log_level [<error|warn|info|debug> level and above should be logged]

func main() {
	log.AddHook(hooks.NewContextHook())

	cl := cli.NewSimpleCLIClient(os.Stdin, os.Stdout)
	if err := cl.Exec(); err != nil {
		log.Error("error running procsim: ", err)
		os.Exit(int(errors.ExitCodeOf(err)))
	}
}
