package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brunobiangulo/godefine"
)

var paraphraseCmd = &cobra.Command{
	Use:   "paraphrase [definition]",
	Short: "Paraphrase a definition into a fixed number of sentences",
	Long: `Paraphrase rewrites a definition (given as the argument or --file) into
exactly --sentences Indonesian sentences. When the generation provider is
unavailable, or with --offline, template sentences are used instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParaphrase,
}

func init() {
	paraphraseCmd.Flags().StringP("keyword", "k", "", "keyword the definition describes (required)")
	paraphraseCmd.Flags().StringP("sentences", "n", "2", "number of sentences, 1-5")
	paraphraseCmd.Flags().String("context", "", "surrounding text passed to the model")
	paraphraseCmd.Flags().String("file", "", "read the definition from a document instead")
	paraphraseCmd.MarkFlagRequired("keyword")

	rootCmd.AddCommand(paraphraseCmd)
}

func runParaphrase(cmd *cobra.Command, args []string) error {
	keyword, _ := cmd.Flags().GetString("keyword")
	if strings.TrimSpace(keyword) == "" {
		return godefine.ErrEmptyKeyword
	}
	raw, _ := cmd.Flags().GetString("sentences")
	n, err := godefine.ParseSentenceCount(raw)
	if err != nil {
		return err
	}

	engine, err := openEngine(cmd, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	var source string
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		if source, err = readDocument(cmd, engine, file); err != nil {
			return err
		}
	} else if len(args) > 0 {
		source = args[0]
	}
	if strings.TrimSpace(source) == "" {
		return godefine.ErrEmptyText
	}
	surrounding, _ := cmd.Flags().GetString("context")
	if surrounding == "" {
		surrounding = source
	}

	res, err := engine.Paraphrase(cmd.Context(), source, keyword, surrounding, n)
	if err != nil {
		return err
	}

	return render(cmd, res, func(w io.Writer) error {
		fmt.Fprintln(w, res.Text)
		if res.Fallback {
			fmt.Fprintf(w, "\n(template paraphrase, %d sentences)\n", res.Sentences)
		}
		return nil
	})
}
