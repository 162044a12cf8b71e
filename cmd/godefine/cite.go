package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/brunobiangulo/godefine"
)

var citeCmd = &cobra.Command{
	Use:   "cite [paraphrase]",
	Short: "Render in-text citations and bibliography entries",
	Long: `Cite renders every in-text citation variant of the paraphrase for the
given author and year, and every bibliography variant of --title, in the
chosen format (APA, MLA or Chicago). The preferred variant of each is
listed first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCite,
}

func init() {
	citeCmd.Flags().StringP("author", "a", "", "author field, e.g. \"Budi Santoso, Sari Dewi\" (required)")
	citeCmd.Flags().IntP("year", "y", 0, "publication year (required)")
	citeCmd.Flags().StringP("format", "f", "APA", "citation format: APA, MLA or CHICAGO")
	citeCmd.Flags().String("title", "", "source title or filename for the bibliography")
	citeCmd.MarkFlagRequired("author")
	citeCmd.MarkFlagRequired("year")

	rootCmd.AddCommand(citeCmd)
}

// citeOutput is the structured form of the cite command.
type citeOutput struct {
	InTextCitation string   `json:"inTextCitation" yaml:"in_text_citation"`
	Bibliography   string   `json:"bibliography" yaml:"bibliography"`
	Citations      []string `json:"citations" yaml:"citations"`
	Bibliographies []string `json:"bibliographies" yaml:"bibliographies"`
}

func runCite(cmd *cobra.Command, args []string) error {
	author, _ := cmd.Flags().GetString("author")
	if strings.TrimSpace(author) == "" {
		return godefine.ErrEmptyAuthor
	}
	year, _ := cmd.Flags().GetInt("year")
	if err := godefine.ValidateYear(year, time.Now()); err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	title, _ := cmd.Flags().GetString("title")
	var paraphrased string
	if len(args) > 0 {
		paraphrased = args[0]
	}

	engine, err := openEngine(cmd, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	out := citeOutput{
		Citations:      engine.BuildCitations(paraphrased, author, year, format),
		Bibliographies: engine.BuildBibliography(title, author, year, format),
	}
	out.InTextCitation = engine.SelectBestCitation(out.Citations)
	out.Bibliography = engine.SelectBestBibliography(out.Bibliographies)

	return render(cmd, out, func(w io.Writer) error {
		fmt.Fprintln(w, "Citation:")
		fmt.Fprintf(w, "  %s\n", out.InTextCitation)
		for _, c := range out.Citations {
			if c != out.InTextCitation {
				fmt.Fprintf(w, "  alt: %s\n", c)
			}
		}
		fmt.Fprintln(w, "Bibliography:")
		fmt.Fprintf(w, "  %s\n", out.Bibliography)
		for _, b := range out.Bibliographies {
			if b != out.Bibliography {
				fmt.Fprintf(w, "  alt: %s\n", b)
			}
		}
		return nil
	})
}
