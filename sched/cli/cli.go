package cli

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twitter/procsim/common/errors"
	"github.com/twitter/procsim/sched/config"
)

const stdinName = "-"

// procsim CLI interface that includes CLI handling
type CLIClient interface {
	Exec() error
}

// Implements CLIClient - basic
type simpleCLIClient struct {
	rootCmd *cobra.Command

	logLevel       string
	configSelector string

	in  io.Reader
	out io.Writer
}

func (c *simpleCLIClient) Exec() error {
	return c.rootCmd.Execute()
}

// NewSimpleCLIClient reads commands from in when no input file is given and
// writes reports to out.
func NewSimpleCLIClient(in io.Reader, out io.Writer) CLIClient {
	return newSimpleCLIClient(in, out)
}

func newSimpleCLIClient(in io.Reader, out io.Writer) *simpleCLIClient {
	c := &simpleCLIClient{in: in, out: out}

	c.rootCmd = &cobra.Command{
		Use:               "procsim",
		Short:             "procsim simulates a multilevel feedback queue scheduler driven by a command stream",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setLogLevel,
	}
	c.rootCmd.PersistentFlags().StringVar(&c.logLevel, "log_level", "info", "Log everything at this level and above (error|warn|info|debug)")
	c.rootCmd.PersistentFlags().StringVar(&c.configSelector, "config", "default", "config name, path to a .json file, or literal json")

	c.addCmd(&runCmd{})
	c.addCmd(&validateCmd{})
	c.addCmd(&genCmd{})
	c.addCmd(&configsCmd{})

	return c
}

func (c *simpleCLIClient) setLogLevel(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(c.logLevel)
	if err != nil {
		return errors.NewError(err, errors.UsageExitCode)
	}
	log.SetLevel(level)
	return nil
}

func (c *simpleCLIClient) loadConfig() (*config.JSONConfigs, error) {
	cfg, err := config.GetConfig(c.configSelector)
	if err != nil {
		return nil, errors.NewError(err, errors.ConfigFailureExitCode)
	}
	log.Debugf("using config %s: %s", c.configSelector, cfg)
	return cfg, nil
}

// openInput returns the reader for name, stdin when name is "-".
func (c *simpleCLIClient) openInput(name string) (io.Reader, func(), error) {
	if name == "" || name == stdinName {
		return c.in, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, errors.NewError(err, errors.InputFailureExitCode)
	}
	return f, func() { f.Close() }, nil
}

func (c *simpleCLIClient) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.run(c, innerCmd, args)
	}
	c.rootCmd.AddCommand(cobraCmd)
}

type command interface {
	registerFlags() *cobra.Command
	run(cl *simpleCLIClient, cmd *cobra.Command, args []string) error
}
