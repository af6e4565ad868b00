package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "List the cards in the configured deck",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup(cmd.Context(), io.Discard)
		if err != nil {
			return err
		}
		defer rt.close()

		deck, err := rt.svc.Deck(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, c := range deck.Cards() {
			fmt.Fprintf(out, "%2d  %s\t%s\n", i, c.Name, strings.Join(c.Keywords, " · "))
		}
		return nil
	},
}
