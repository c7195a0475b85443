// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/ankitools/internal/ai"
	"github.com/pdiddy/ankitools/internal/transform"
	"github.com/pdiddy/ankitools/pkg/types"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Rewrite existing notes in place",
}

var randomBasicCmd = &cobra.Command{
	Use:   "random-basic",
	Short: "Convert Basic notes to RandomBasic with AI rephrasings of the prompt",
	Long: `random-basic finds notes with an Anki search query and, for each Basic note,
asks the text service for alternative phrasings of the prompt field. The field
becomes "original | variant 1 | variant 2" and the note is switched to the
RandomBasic note type, keeping its id, other fields, and tags.

Notes of another type, and notes whose prompt already contains "|", are
skipped. The RandomBasic note type must already exist in Anki.`,
	Example: `  ankitools transform random-basic --query 'deck:Geography' --prompt-field Front
  ankitools transform random-basic --query 'tag:vocab' --prompt-field Front --variations 3 --max-notes 10 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runRandomBasic,
}

func init() {
	f := randomBasicCmd.Flags()
	f.String("query", "", "Anki search query selecting the notes (required)")
	f.String("prompt-field", "Front", "field holding the prompt to rephrase")
	f.Int("variations", transform.DefaultVariations, "number of rephrasings per note (minimum 2)")
	f.Int("max-notes", 0, "process at most N matching notes (0 for no limit)")
	f.String("source-model", types.ModelBasic, "only notes of this type are transformed")
	f.String("target-model", types.ModelRandomBasic, "note type the transformed notes are switched to")
	f.Bool("dry-run", false, "show what would change without updating notes")
	_ = randomBasicCmd.MarkFlagRequired("query")

	transformCmd.AddCommand(randomBasicCmd)
	rootCmd.AddCommand(transformCmd)
}

func runRandomBasic(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	promptField, _ := cmd.Flags().GetString("prompt-field")
	variations, _ := cmd.Flags().GetInt("variations")
	maxNotes, _ := cmd.Flags().GetInt("max-notes")
	sourceModel, _ := cmd.Flags().GetString("source-model")
	targetModel, _ := cmd.Flags().GetString("target-model")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	aiCfg, err := aiConfig()
	if err != nil {
		return err
	}
	completer, err := ai.NewCompleter(cmd.Context(), appLogger, aiCfg)
	if err != nil {
		return err
	}
	defer closeCompleter(completer)

	t := &transform.RandomBasic{
		Store:     newStore(),
		Rephraser: ai.NewEnricher(completer),
		Options: transform.Options{
			PromptField: promptField,
			Variations:  variations,
			MaxNotes:    maxNotes,
			SourceModel: sourceModel,
			TargetModel: targetModel,
			DryRun:      dryRun,
		},
		Logger: appLogger,
	}
	report, err := t.Run(cmd.Context(), query)
	if err != nil {
		return err
	}
	return finish(cmd, report)
}
