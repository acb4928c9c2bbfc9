// Package report renders liveness results.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mahbod-afarin/liveness/pass"
)

var ErrUnknownFormat = errors.New("unknown report format")

type writerFunc func(w io.Writer, results []*pass.Result) error

var formats = map[string]writerFunc{
	"text":     Text,
	"markdown": Markdown,
	"html":     HTML,
	"dot":      DOTAll,
}

// Formats lists the names accepted by Write.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write renders results to w in the named format.
func Write(w io.Writer, format string, results []*pass.Result) error {
	fn, ok := formats[strings.ToLower(format)]
	if !ok {
		return fmt.Errorf("%w %q, want one of %s", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
	return fn(w, results)
}

// Lines returns the text report lines of one result, one per block in unit
// order: the block name, a colon and the sorted live-out names.
func Lines(r *pass.Result) []string {
	lines := make([]string, len(r.Unit.Blocks))
	for i, b := range r.Unit.Blocks {
		out := r.LiveOut(b)
		if len(out) == 0 {
			lines[i] = b.Name + ":"
		} else {
			lines[i] = b.Name + ": " + strings.Join(out, " ")
		}
	}
	return lines
}

// Text writes a header per unit followed by its block lines.
func Text(w io.Writer, results []*pass.Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		fmt.Fprintf(bw, "liveness: %s\n", r.Unit.Name)
		for _, line := range Lines(r) {
			fmt.Fprintln(bw, line)
		}
	}
	return bw.Flush()
}

// Markdown writes one section per unit with a block/live-out table.
func Markdown(w io.Writer, results []*pass.Result) error {
	bw := bufio.NewWriter(w)
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "## %s\n\n", escape(r.Unit.Name))
		fmt.Fprintln(bw, "| block | live-out |")
		fmt.Fprintln(bw, "|-------|----------|")
		for _, b := range r.Unit.Blocks {
			out := r.LiveOut(b)
			for j, name := range out {
				out[j] = codeSpan(name)
			}
			fmt.Fprintf(bw, "| %s | %s |\n", escape(b.Name), strings.Join(out, " "))
		}
	}
	return bw.Flush()
}

var mdEscaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`")

func escape(s string) string {
	return mdEscaper.Replace(s)
}

// codeSpan quotes name as inline code inside a table cell. Pipes still end
// the cell there, so they are escaped; a name holding a backtick gets a
// double fence.
func codeSpan(name string) string {
	name = strings.ReplaceAll(name, "|", `\|`)
	if strings.Contains(name, "`") {
		return "`` " + name + " ``"
	}
	return "`" + name + "`"
}
