// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ankitools/internal/ankiconnect"
	"github.com/pdiddy/ankitools/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that AnkiConnect is reachable",
	Long: `Check sends a version request to AnkiConnect and reports the API version.
It fails when Anki is not running, the add-on is missing, or the add-on
speaks an older protocol than this tool.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

type checkResult struct {
	URL        string `json:"url" yaml:"url"`
	APIVersion int    `json:"api_version" yaml:"api_version"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	store := newStore()
	v, err := store.Version(cmd.Context())
	if err != nil {
		return fmt.Errorf("AnkiConnect not reachable at %s: %w", store.URL, err)
	}
	if v < ankiconnect.APIVersion {
		return fmt.Errorf("AnkiConnect at %s speaks API version %d, need %d or later", store.URL, v, ankiconnect.APIVersion)
	}
	appLogger.Debug("AnkiConnect reachable", "url", store.URL, "api_version", v)

	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	res := checkResult{URL: store.URL, APIVersion: v}
	if p.Format != ui.FormatText {
		return p.Value(res)
	}
	_, err = fmt.Fprintf(p.W, "AnkiConnect %s: API version %d\n", res.URL, res.APIVersion)
	return err
}
