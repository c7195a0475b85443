// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List collection contents",
}

var listDecksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List deck names",
	Args:  cobra.NoArgs,
	RunE:  runListDecks,
}

func init() {
	listCmd.AddCommand(listDecksCmd)
	rootCmd.AddCommand(listCmd)
}

func runListDecks(cmd *cobra.Command, args []string) error {
	names, err := newStore().DeckNames(cmd.Context())
	if err != nil {
		return err
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	return p.List(names)
}
