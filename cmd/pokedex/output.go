package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// textWriter aligns tab-separated rows for the text output format.
type textWriter struct {
	tw *tabwriter.Writer
}

func (w *textWriter) row(cols ...string) {
	fmt.Fprintln(w.tw, strings.Join(cols, "\t"))
}

func (w *textWriter) line(format string, args ...interface{}) {
	fmt.Fprintf(w.tw, format+"\n", args...)
}

// render writes v as indented JSON, or calls text for the text format.
func render(cmd *cobra.Command, format string, v interface{}, text func(*textWriter)) error {
	out := cmd.OutOrStdout()
	if format == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	w := &textWriter{tw: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
	text(w)
	return w.tw.Flush()
}
