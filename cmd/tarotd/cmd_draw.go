package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/ui/tui"
)

var drawArea string

var drawCmd = &cobra.Command{
	Use:   "draw [--area general|love|career|spirituality] <question>",
	Short: "Draw one card and print the reading",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer rt.close()

		res, err := rt.svc.ReadOnce(cmd.Context(), strings.Join(args, " "), domain.ParseTopicArea(drawArea))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s（%s）\n%s\n\n", res.Card.Name, strings.Join(res.Card.Keywords, domain.KeywordSeparator), res.Area.Label())
		fmt.Fprintln(out, tui.RenderMarkdown(res.Interpretation.Text, 80))
		return nil
	},
}

func init() {
	drawCmd.Flags().StringVar(&drawArea, "area", string(domain.AreaGeneral), "topic area")
}
