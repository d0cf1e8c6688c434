package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/OrtheSnowJames/naturebindgen/bindgen"
)

// renderSummary formats the per-kind counts of a run.
func renderSummary(syms bindgen.Symbols, diagnostics, size int) string {
	enumValues := 0
	for _, e := range syms.Enums {
		enumValues += len(e.Members)
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Kind", "Count"})
	tbl.AppendRows([]table.Row{
		{"Constants", len(syms.Constants)},
		{"Enum values", enumValues},
		{"Unions", len(syms.Unions)},
		{"Structs", len(syms.Structs)},
		{"Functions", len(syms.Functions)},
		{"Typedefs", len(syms.Typedefs)},
	})
	if diagnostics > 0 {
		tbl.AppendRow(table.Row{"Parse errors", diagnostics})
	}
	tbl.AppendFooter(table.Row{"Output", humanize.Bytes(uint64(size))})
	return tbl.Render()
}

// checkOutput compares the existing output file with bindings and prints a
// line diff when they differ.
func checkOutput(w io.Writer, path, bindings string) error {
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read bindings: %w", err)
	}

	if string(current) == bindings {
		color.New(color.FgGreen).Fprintf(w, "Bindings are up to date: %s\n", path)
		return nil
	}

	added, removed := writeLineDiff(w, string(current), bindings)
	color.New(color.FgYellow).Fprintf(w, "%s: %d lines added, %d removed\n", path, added, removed)
	return fmt.Errorf("%w: %s", ErrOutdated, path)
}

// writeLineDiff prints a line-level diff from old to new and returns the
// number of added and removed lines.
func writeLineDiff(w io.Writer, old, new string) (added, removed int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				added++
				green.Fprintf(w, "+%s\n", line)
			case diffmatchpatch.DiffDelete:
				removed++
				red.Fprintf(w, "-%s\n", line)
			case diffmatchpatch.DiffEqual:
			}
		}
	}
	return added, removed
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
