// Package main is the godefine command-line tool. It runs definition
// extraction, paraphrasing and citation locally, with or without the
// document store the HTTP server uses.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/brunobiangulo/godefine"
	"github.com/brunobiangulo/godefine/llm"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the godefine CLI.
var rootCmd = &cobra.Command{
	Use:   "godefine",
	Short: "Find, paraphrase and cite keyword definitions in academic documents",
	Long: `godefine locates the definition of a keyword in a document (PDF, DOCX,
PPTX, XLSX or plain text), paraphrases it into a chosen number of
Indonesian sentences and renders the matching in-text citation and
bibliography entry.

Subcommands that only read input (extract, paraphrase, cite, process)
run without the document store; process --save and history use it.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./godefine.yaml or ~/.config/godefine/godefine.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().Bool("offline", false, "skip the generation provider and use template paraphrases")
}

func initLogging() {
	level := slog.LevelWarn
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads the --config file and environment, then fills the
// provider API key from its conventional variable.
func loadConfig(cmd *cobra.Command) (godefine.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := godefine.LoadConfig(path)
	if err != nil {
		return godefine.Config{}, err
	}
	cfg.ApplyProviderEnv()
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		cfg.Generation.Provider = ""
	}
	return cfg, nil
}

// openEngine builds an engine. Without withStore no database is opened
// and persistence calls fail with godefine.ErrStoreUnavailable.
func openEngine(cmd *cobra.Command, withStore bool) (godefine.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if withStore {
		return godefine.New(cfg)
	}

	var gen llm.Generator
	if cfg.Generation.Provider != "" {
		p, err := llm.NewProvider(cfg.Generation)
		if err != nil {
			return nil, fmt.Errorf("creating generation provider: %w", err)
		}
		gen = llm.NewGenerator(p)
	}
	return godefine.NewWithDeps(cfg, godefine.Deps{Generator: gen})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
