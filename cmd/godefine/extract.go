package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brunobiangulo/godefine"
	"github.com/brunobiangulo/godefine/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "List candidate definitions of a keyword and their confidence",
	Long: `Extract reads a document (or --text), finds sentences that define the
keyword and prints them ranked by score together with the confidence
tier and the strategy process would use. Nothing is generated or stored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("keyword", "k", "", "keyword to define (required)")
	extractCmd.Flags().String("text", "", "inline text to search instead of a file")
	extractCmd.Flags().Int("limit", 5, "maximum candidates to print in text output")
	extractCmd.MarkFlagRequired("keyword")

	rootCmd.AddCommand(extractCmd)
}

// extractOutput is the structured form of the extract command.
type extractOutput struct {
	Keyword        string                  `json:"keyword" yaml:"keyword"`
	Candidates     []extract.Candidate     `json:"candidates" yaml:"candidates"`
	Classification extract.Classification `json:"classification" yaml:"classification"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	keyword, _ := cmd.Flags().GetString("keyword")
	if strings.TrimSpace(keyword) == "" {
		return godefine.ErrEmptyKeyword
	}
	engine, err := openEngine(cmd, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	text, err := inputText(cmd, engine, args)
	if err != nil {
		return err
	}

	res := engine.ExtractDefinitions(text, keyword)
	out := extractOutput{
		Keyword:        keyword,
		Candidates:     res.Candidates(),
		Classification: engine.ClassifyConfidence(res),
	}

	limit, _ := cmd.Flags().GetInt("limit")
	return render(cmd, out, func(w io.Writer) error {
		cls := out.Classification
		fmt.Fprintf(w, "Keyword:    %s\n", out.Keyword)
		fmt.Fprintf(w, "Confidence: %s (top score %d)\n", cls.Tier, cls.TopScore)
		fmt.Fprintf(w, "Strategy:   %s\n", cls.Strategy)
		if len(out.Candidates) == 0 {
			fmt.Fprintln(w, "\nNo candidate definitions found.")
			return nil
		}
		fmt.Fprintf(w, "\n%-4s  %-5s  %s\n", "Rank", "Score", "Definition")
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for i, c := range out.Candidates {
			if limit > 0 && i >= limit {
				fmt.Fprintf(w, "... %d more\n", len(out.Candidates)-limit)
				break
			}
			fmt.Fprintf(w, "%-4d  %-5d  %s\n", i+1, c.Score, truncate(c.Text, 68))
		}
		return nil
	})
}

// inputText returns --text when set, otherwise the extracted text of the
// file argument.
func inputText(cmd *cobra.Command, engine godefine.Engine, args []string) (string, error) {
	if text, _ := cmd.Flags().GetString("text"); strings.TrimSpace(text) != "" {
		return text, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("provide a file or --text")
	}
	return readDocument(cmd, engine, args[0])
}
