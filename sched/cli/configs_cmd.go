package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twitter/procsim/common/errors"
	"github.com/twitter/procsim/sched/config"
)

type configsCmd struct{}

func (c *configsCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "configs [name]",
		Short: "list the built-in configurations, or print one resolved against the defaults",
		Args:  cobra.MaximumNArgs(1),
	}
}

func (c *configsCmd) run(cl *simpleCLIClient, cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(cl.out, strings.Join(config.Names(), "\n"))
		return err
	}
	cfg, err := config.GetConfig(args[0])
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cl.out, string(b))
	return err
}
