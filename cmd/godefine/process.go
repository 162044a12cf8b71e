package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/brunobiangulo/godefine"
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Find, paraphrase and cite the definition of a keyword in a document",
	Long: `Process runs the full pipeline on a document: extraction, confidence
grading, paraphrasing (or a not-found explanation) and citation. With
--save the document is uploaded to the store first and the result is
recorded in the user's history.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringP("keyword", "k", "", "keyword to define (required)")
	processCmd.Flags().StringP("author", "a", "", "author field (required)")
	processCmd.Flags().IntP("year", "y", 0, "publication year (required)")
	processCmd.Flags().StringP("format", "f", "", "citation format: APA, MLA or CHICAGO (default from config)")
	processCmd.Flags().StringP("sentences", "n", "", "number of sentences, 1-5 (default from config)")
	processCmd.Flags().Bool("save", false, "store the document and result in the database")
	processCmd.Flags().String("user", defaultUser(), "user the saved document belongs to")
	processCmd.MarkFlagRequired("keyword")
	processCmd.MarkFlagRequired("author")
	processCmd.MarkFlagRequired("year")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	keyword, _ := cmd.Flags().GetString("keyword")
	author, _ := cmd.Flags().GetString("author")
	year, _ := cmd.Flags().GetInt("year")
	format, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")

	n := 0
	if raw, _ := cmd.Flags().GetString("sentences"); raw != "" {
		var err error
		if n, err = godefine.ParseSentenceCount(raw); err != nil {
			return err
		}
	}

	engine, err := openEngine(cmd, save)
	if err != nil {
		return err
	}
	defer engine.Close()

	var res *godefine.ProcessResult
	if save {
		res, err = processSaved(cmd, engine, path, godefine.UploadRequest{
			Keyword:        keyword,
			Author:         author,
			Year:           year,
			CitationFormat: format,
			SentenceCount:  n,
		})
	} else {
		res, err = processLocal(cmd, engine, path, godefine.Source{
			Keyword:        keyword,
			Author:         author,
			Year:           year,
			CitationFormat: format,
			SentenceCount:  n,
		})
	}
	if err != nil {
		return err
	}

	return render(cmd, res, func(w io.Writer) error {
		printProcessResult(w, res)
		return nil
	})
}

// processLocal validates like an upload would, then runs the pipeline in
// memory.
func processLocal(cmd *cobra.Command, engine godefine.Engine, path string, src godefine.Source) (*godefine.ProcessResult, error) {
	if strings.TrimSpace(src.Author) == "" {
		return nil, godefine.ErrEmptyAuthor
	}
	if err := godefine.ValidateYear(src.Year, time.Now()); err != nil {
		return nil, err
	}
	text, err := readDocument(cmd, engine, path)
	if err != nil {
		return nil, err
	}
	src.Filename = filepath.Base(path)
	src.Text = text
	return engine.ProcessSource(cmd.Context(), src)
}

// processSaved uploads the file for --user and processes the stored copy.
func processSaved(cmd *cobra.Command, engine godefine.Engine, path string, req godefine.UploadRequest) (*godefine.ProcessResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	user, _ := cmd.Flags().GetString("user")
	req.UserID = user
	req.Filename = filepath.Base(path)
	req.Data = data

	doc, err := engine.Upload(cmd.Context(), req)
	if err != nil {
		return nil, err
	}
	return engine.Process(cmd.Context(), user, doc.ID)
}

func printProcessResult(w io.Writer, res *godefine.ProcessResult) {
	if res.DocumentID != 0 {
		fmt.Fprintf(w, "Document:     %d\n", res.DocumentID)
	}
	fmt.Fprintf(w, "Keyword:      %s\n", res.Keyword)
	fmt.Fprintf(w, "Found:        %t\n", res.DefinitionFound)
	fmt.Fprintf(w, "Confidence:   %s\n", res.ConfidenceLevel)
	fmt.Fprintf(w, "Sentences:    %d of %d\n", res.SentenceAnalysis.ActualSentences, res.SentenceAnalysis.TargetSentences)
	if res.OriginalDefinition != "" {
		fmt.Fprintf(w, "\nOriginal:\n  %s\n", res.OriginalDefinition)
	}
	fmt.Fprintf(w, "\nCitation:\n  %s\n", res.InTextCitation)
	fmt.Fprintf(w, "\nBibliography:\n  %s\n", res.Bibliography)
	if res.ProcessingNotes != "" {
		fmt.Fprintf(w, "\nNotes:\n  %s\n", res.ProcessingNotes)
	}
}

// defaultUser names the local user for saved documents.
func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
