// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ankitools CLI.
// It generates and transforms Anki notes through the AnkiConnect add-on,
// optionally enriching card content with a generative-text service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ankitools/internal/logger"
	"github.com/pdiddy/ankitools/internal/secrets"
	"github.com/pdiddy/ankitools/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is resolved once per invocation in the root PersistentPreRunE.
	cfg types.Config

	// appLogger is the process logger; it writes to stderr.
	appLogger = slog.Default()

	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string
)

// rootCmd is the base command for the ankitools CLI.
var rootCmd = &cobra.Command{
	Use:   "ankitools",
	Short: "Generate and transform Anki flashcards through AnkiConnect",
	Long: `ankitools creates Anki notes from structured input (operand lists, word
lists, poems, sequences) and rewrites existing notes, talking to Anki through
the AnkiConnect add-on. Spelling descriptions and prompt rephrasings come from
a generative-text service (Gemini by default).

Anki must be running with AnkiConnect installed for every command except
version and dry runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := decodeConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c
		appLogger = logger.Setup(cfg.Log.Level, os.Stderr)

		s, err := secrets.Load(secrets.DefaultDir, appLogger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			appLogger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./ankitools.yaml or ~/.config/ankitools/config.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error (default info)")
	pf.String("anki-url", "", "AnkiConnect endpoint (default "+defaultAnkiURL+")")
	pf.StringP("output", "o", "text", "output format: text, json, yaml")

	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("anki.url", pf.Lookup("anki-url"))
}

func initConfig() {
	// .env values never override variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: could not load .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ankitools")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ankitools"))
		}
	}

	viper.SetEnvPrefix("ANKITOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
