// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ankitools/internal/ai"
	"github.com/pdiddy/ankitools/internal/generate"
	"github.com/pdiddy/ankitools/internal/textutil"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create notes from structured input",
	Long: `Generate builds notes from operand lists, word lists, poems, or sequences
and adds them to a deck. Every note is tagged ankitools-generated and, unless
--no-run-tag is given, with a UUID identifying the run so it can be found or
deleted in Anki afterwards.

Re-running a generation creates duplicate notes.`,
}

var generateArithmeticCmd = &cobra.Command{
	Use:   "arithmetic",
	Short: "Create mental-arithmetic cards for every pair of operands",
	Example: `  ankitools generate arithmetic --deck Math --operands 3,7,8,9
  ankitools generate arithmetic --deck Math --operands 12,250 --operations multiplication --group-digits`,
	Args: cobra.NoArgs,
	RunE: runGenerateArithmetic,
}

var generateSpellingCmd = &cobra.Command{
	Use:   "spelling",
	Short: "Create syllable cloze cards with AI descriptions from a word list",
	Long: `Spelling reads one word per line, splits each word into syllables, and
creates a Cloze note with one deletion per syllable. The Extra field carries a
short AI-generated description of the word; when the text service fails the
note is still created with "Description unavailable".`,
	Args: cobra.NoArgs,
	RunE: runGenerateSpelling,
}

var generatePoetryCmd = &cobra.Command{
	Use:   "poetry",
	Short: "Create line-by-line recall cards for a poem",
	Long: `Poetry reads a title line, an author line, and the poem, from --input or
stdin. Each poem line becomes one card whose front shows the two preceding
lines. A .yaml or .yml input file is read as {title, author, lines}.`,
	Args: cobra.NoArgs,
	RunE: runGeneratePoetry,
}

var generateSequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Create cards for memorizing an ordered sequence",
	Long: `Sequence reads a title line followed by one element per line, from --input
or stdin. By default one forward card ("What is element #N?") is created per
element. --cards selects more kinds: recall-all, cloze-all, forward, backward,
successor, predecessor, or all. A .yaml or .yml input file is read as
{title, elements}.`,
	Args: cobra.NoArgs,
	RunE: runGenerateSequence,
}

func init() {
	pf := generateCmd.PersistentFlags()
	pf.String("deck", "", "target deck name (required)")
	pf.String("input", "", "input file (stdin when omitted or -)")
	pf.Bool("dry-run", false, "show the notes that would be created without contacting Anki")
	pf.Bool("no-run-tag", false, "do not tag notes with a per-run UUID")
	pf.Bool("create-deck", false, "create the deck if it does not exist")
	_ = generateCmd.MarkPersistentFlagRequired("deck")

	generateArithmeticCmd.Flags().String("operands", "", "comma-delimited integers, e.g. 3,7,8,9 (required)")
	generateArithmeticCmd.Flags().String("operations", "all", "addition, multiplication, or all")
	generateArithmeticCmd.Flags().Bool("group-digits", false, "format numbers with thousands separators")
	_ = generateArithmeticCmd.MarkFlagRequired("operands")

	generateSpellingCmd.Flags().String("patterns", "", "TeX hyphenation pattern file (default: spelling.patterns_file, else built-in en-US)")

	generateSequenceCmd.Flags().String("cards", "forward", "card kinds to create, comma-separated")
	generateSequenceCmd.Flags().Bool("context", false, "show neighbouring elements on forward cards")

	generateCmd.AddCommand(generateArithmeticCmd, generateSpellingCmd, generatePoetryCmd, generateSequenceCmd)
	rootCmd.AddCommand(generateCmd)
}

func runGenerateArithmetic(cmd *cobra.Command, args []string) error {
	operandsFlag, _ := cmd.Flags().GetString("operands")
	operands, err := generate.ParseOperands(operandsFlag)
	if err != nil {
		return err
	}
	opsFlag, _ := cmd.Flags().GetString("operations")
	ops, err := generate.ParseOperations(opsFlag)
	if err != nil {
		return err
	}
	group, _ := cmd.Flags().GetBool("group-digits")
	deck, _ := cmd.Flags().GetString("deck")

	drafts := generate.ArithmeticSet(operands, ops, generate.ArithmeticOptions{Deck: deck, GroupDigits: group})
	return submit(cmd, "arithmetic", drafts)
}

func runGenerateSpelling(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd)
	if err != nil {
		return err
	}
	words, err := generate.ReadWords(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("no words in input")
	}

	aiCfg, err := aiConfig()
	if err != nil {
		return err
	}
	completer, err := ai.NewCompleter(cmd.Context(), appLogger, aiCfg)
	if err != nil {
		return err
	}
	defer closeCompleter(completer)

	patterns, _ := cmd.Flags().GetString("patterns")
	if patterns == "" {
		patterns = cfg.Spelling.PatternsFile
	}
	hyph, err := textutil.LoadHyphenator(patterns)
	if err != nil {
		return fmt.Errorf("loading hyphenation patterns: %w", err)
	}
	if patterns != "" {
		appLogger.Debug("hyphenation patterns loaded", "patterns_file", patterns)
	}

	deck, _ := cmd.Flags().GetString("deck")
	drafts := generate.Spelling(cmd.Context(), words, generate.SpellingOptions{
		Deck:       deck,
		Hyphenator: hyph,
		Describer:  ai.NewEnricher(completer),
		Logger:     appLogger,
	})
	return submit(cmd, "spelling", drafts)
}

func runGeneratePoetry(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd)
	if err != nil {
		return err
	}
	var poem generate.Poem
	if isYAMLInput(cmd) {
		poem, err = generate.ParsePoemYAML(bytes.NewReader(data))
	} else {
		poem, err = generate.ParsePoem(string(data))
	}
	if err != nil {
		return err
	}
	appLogger.Info("poem parsed", "title", poem.Title, "author", poem.Author, "lines", len(poem.Lines))

	deck, _ := cmd.Flags().GetString("deck")
	return submit(cmd, "poetry", generate.Poetry(deck, poem))
}

func runGenerateSequence(cmd *cobra.Command, args []string) error {
	cardsFlag, _ := cmd.Flags().GetString("cards")
	kinds, err := generate.ParseCardKinds(cardsFlag)
	if err != nil {
		return err
	}
	withContext, _ := cmd.Flags().GetBool("context")

	data, err := readInput(cmd)
	if err != nil {
		return err
	}
	var seq generate.Sequence
	if isYAMLInput(cmd) {
		seq, err = generate.ParseSequenceYAML(bytes.NewReader(data))
	} else {
		seq, err = generate.ParseSequence(string(data))
	}
	if err != nil {
		return err
	}
	appLogger.Info("sequence parsed", "title", seq.Title, "elements", len(seq.Elements))

	deck, _ := cmd.Flags().GetString("deck")
	drafts := generate.SequenceCards(seq, generate.SequenceOptions{Deck: deck, Kinds: kinds, Context: withContext})
	return submit(cmd, "sequence", drafts)
}

// submit sends drafts using the shared generate flags and prints the report.
func submit(cmd *cobra.Command, command string, drafts []generate.Draft) error {
	deck, _ := cmd.Flags().GetString("deck")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noRunTag, _ := cmd.Flags().GetBool("no-run-tag")
	createDeck, _ := cmd.Flags().GetBool("create-deck")

	opts := generate.SubmitOptions{
		Command:    command,
		Deck:       deck,
		DryRun:     dryRun,
		CreateDeck: createDeck,
		Logger:     appLogger,
	}
	if !noRunTag {
		opts.RunTag = generate.NewRunTag()
		appLogger.Info("tagging notes for this run", "run_tag", opts.RunTag)
	}

	report, err := generate.Submit(cmd.Context(), newStore(), drafts, opts)
	if err != nil {
		return err
	}
	return finish(cmd, report)
}

// readInput returns the --input file contents, or stdin when the flag is empty or "-".
func readInput(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString("input")
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func isYAMLInput(cmd *cobra.Command) bool {
	path, _ := cmd.Flags().GetString("input")
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func closeCompleter(c ai.Completer) {
	if closer, ok := c.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			appLogger.Debug("closing text service client", "error", err)
		}
	}
}
