package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mahbod-afarin/liveness/pass"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the markdown report to an HTML fragment.
func HTML(w io.Writer, results []*pass.Result) error {
	var src bytes.Buffer
	if err := Markdown(&src, results); err != nil {
		return err
	}
	if err := markdown.Convert(src.Bytes(), w); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}
