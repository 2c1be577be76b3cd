package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/tilt-maze/config"
)

func newRootCmd() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:          "tilt-maze",
		Short:        "Roll a ball through a maze by tilting the device",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return play(cmd.Context(), opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")
	pf.BoolVar(&opts.debug, "debug", false, "enable logging to logs/tilt-maze.log")
	pf.StringVar(&opts.listen, "listen", "", "serve the phone sensor feed on this address, e.g. :8080")
	pf.StringVar(&opts.color, "color", "", "color mode: auto, truecolor, 256")
	pf.StringVar(&opts.record, "record", "", "record applied sensor readings to this file")

	cmd.AddCommand(newConfigCmd(), newReplayCmd(&opts))
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.Default().Marshal()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newReplayCmd(opts *playOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Play using readings recorded with --record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.replayPath = args[0]
			return play(cmd.Context(), *opts)
		},
	}
	cmd.Flags().Float64Var(&opts.replaySpeed, "speed", 1, "playback speed multiplier")
	cmd.Flags().BoolVar(&opts.replayLoop, "loop", false, "restart from the first reading when done")
	return cmd
}
