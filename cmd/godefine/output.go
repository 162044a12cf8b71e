package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/brunobiangulo/godefine"
)

// render writes v in the --output format. The text format is delegated to
// the command's own printer.
func render(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	format, _ := cmd.Flags().GetString("output")
	return renderTo(cmd.OutOrStdout(), format, v, text)
}

func renderTo(w io.Writer, format string, v any, text func(w io.Writer) error) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return text(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(v)
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
		return err
	default:
		return fmt.Errorf("unsupported output format %q: use text, json or yaml", format)
	}
}

// readDocument loads a file and extracts its text through the engine's
// parsers, picked by the file extension.
func readDocument(cmd *cobra.Command, engine godefine.Engine, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return engine.ExtractText(cmd.Context(), filepath.Base(path), "", data)
}

// truncate shortens s to at most n runes for tabular output.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
