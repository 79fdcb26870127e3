package main

import (
	"encoding/json"
	"fmt"

	"github.com/okian/dmasviz/internal/adapters/worker"
	"github.com/okian/dmasviz/internal/config"
	"github.com/okian/dmasviz/internal/domain/types"
	"github.com/spf13/cobra"
)

func (c *cli) plotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot <problem>...",
		Short: "Load all output files of one or more problems and plot them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.service(cmd.Context())
			if len(args) == 1 {
				return svc.Run(cmd.Context(), args[0])
			}
			if c.cfg.Viewer == config.ViewerHTTP {
				return fmt.Errorf("%w: the http viewer shows one problem at a time", config.ErrInvalidConfig)
			}
			return worker.Join(c.pool(svc).Run(cmd.Context(), args))
		},
	}
}

func (c *cli) powerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "power <problem>",
		Short: "Plot power.csv of a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loader(cmd.Context()).LoadPower(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.service(cmd.Context()).PlotPower(cmd.Context(), args[0], p)
		},
	}
}

func (c *cli) scoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scores <problem>",
		Short: "Print the task/subtask score tree of a problem as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loader(cmd.Context()).LoadScores(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := c.service(cmd.Context()).PlotScores(cmd.Context(), args[0], s); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(types.FromScores(s))
		},
	}
}

func (c *cli) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <problem>",
		Short: "Print a table of task scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loader(cmd.Context()).LoadScores(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write([]byte(renderSummary(args[0], s) + "\n"))
			return err
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve <problem>",
		Short: "Plot a problem and serve the chart until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.service(cmd.Context()).Run(cmd.Context(), args[0])
		},
	}
}
