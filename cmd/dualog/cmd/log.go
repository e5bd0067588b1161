package cmd

import (
	"fmt"
	"strings"

	"github.com/sivaosorg/dualog"
	"github.com/spf13/cobra"
)

func (c *command) initLogCmds() {
	for _, s := range dualog.AllSeverities() {
		level := s
		name := strings.ToLower(level.String())
		c.root.AddCommand(&cobra.Command{
			Use:   name + " <message>...",
			Short: fmt.Sprintf("Log a message at %s level", level),
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				logger, err := c.newLogger(cmd)
				if err != nil {
					return err
				}
				if !logger.Log(level, dualog.Text(strings.Join(args, " "))) {
					cmd.PrintErrf("%s message suppressed by %s threshold\n", level, logger.GetLevel())
					return nil
				}
				return c.flush(logger)
			},
		})
	}
}
