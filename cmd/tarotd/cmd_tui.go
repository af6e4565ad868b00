package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/ui/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive reading in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup(cmd.Context(), io.Discard)
		if err != nil {
			return err
		}
		defer rt.close()

		return tui.Run(tui.NewModel(rt.svc, rt.svc.Machine(), rt.cfg.RevealPause, rt.logger))
	},
}
