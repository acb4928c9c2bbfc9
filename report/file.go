package report

import (
	"fmt"
	"os"

	"github.com/mahbod-afarin/liveness/pass"
)

// WriteFile renders results into the file at path, creating or truncating
// it. A failure to close the file is returned when rendering succeeded.
func WriteFile(path, format string, results []*pass.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return Write(f, format, results)
}
