package config

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"runtime"
	"strings"

	"github.com/mahbod-afarin/liveness/ir"
	"github.com/mahbod-afarin/liveness/pass"
	"github.com/mahbod-afarin/liveness/report"
)

// ExcludedPkgs are package path roots whose functions are not analysed.
var ExcludedPkgs = []string{
	"runtime",
	"internal",
	"unsafe",
	"debug",
	"os",
	"syscall",
	"crypto",
	"regexp",
	"strconv",
	"bytes",
	"math",
	"unicode",
	"encoding",
	"time",
	"reflect",
	"sort",
	"sync",
	"fmt",
	"io",
	"errors",
	"strings",
}

// DefaultExclude names the categories whose operands are not uses.
const DefaultExclude = "alloc,store,br,cmp"

type Options struct {
	Debug     bool
	Help      bool
	Format    string
	Output    string
	Threads   int
	Tests     bool
	Func      string
	Exclude   string
	Reachable bool
	Args      []string
}

// Register binds the options to the flags of fs.
func (o *Options) Register(fs *flag.FlagSet) {
	fs.BoolVar(&o.Debug, "debug", false, "Prints debug messages.")
	fs.BoolVar(&o.Help, "help", false, "Show all command-line options.")
	fs.StringVar(&o.Format, "format", "text", "Report format: "+strings.Join(report.Formats(), ", ")+".")
	fs.StringVar(&o.Output, "o", "", "Write the report to this file instead of stdout.")
	fs.IntVar(&o.Threads, "threads", runtime.NumCPU(), "Number of functions analysed concurrently.")
	fs.BoolVar(&o.Tests, "tests", false, "Include test packages.")
	fs.StringVar(&o.Func, "func", "", "Only analyse functions whose name matches this regexp.")
	fs.BoolVar(&o.Reachable, "reachable", false, "Only analyse functions reachable from main.")
	fs.StringVar(&o.Exclude, "exclude", DefaultExclude, "Instruction categories whose operands are not uses, or \"none\".")
}

// PrintDefaults writes the usage of every flag to w.
func PrintDefaults(w io.Writer) {
	fs := flag.NewFlagSet("liveness", flag.ContinueOnError)
	(&Options{}).Register(fs)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// Parse parses args into a fresh Options and validates it.
func Parse(name string, args []string) (*Options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	o := &Options{}
	o.Register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.Args = fs.Args()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Options) Validate() error {
	if !knownFormat(o.Format) {
		return fmt.Errorf("%w %q", report.ErrUnknownFormat, o.Format)
	}
	if o.Threads < 1 {
		return fmt.Errorf("invalid thread count %d", o.Threads)
	}
	if _, err := o.Policy(); err != nil {
		return err
	}
	if _, err := o.FuncFilter(); err != nil {
		return err
	}
	return nil
}

// Policy builds the use policy named by the -exclude flag.
func (o *Options) Policy() (pass.UsePolicy, error) {
	value := strings.TrimSpace(o.Exclude)
	if value == "" || value == "none" {
		return pass.NewUsePolicy(), nil
	}
	var excluded []ir.Category
	for _, field := range strings.Split(value, ",") {
		cat, err := ir.ParseCategory(strings.TrimSpace(field))
		if err != nil {
			return pass.UsePolicy{}, fmt.Errorf("-exclude: %w", err)
		}
		excluded = append(excluded, cat)
	}
	return pass.NewUsePolicy(excluded...), nil
}

// FuncFilter compiles the -func flag. It returns nil when unset.
func (o *Options) FuncFilter() (*regexp.Regexp, error) {
	if o.Func == "" {
		return nil, nil
	}
	re, err := regexp.Compile(o.Func)
	if err != nil {
		return nil, fmt.Errorf("-func: %w", err)
	}
	return re, nil
}

func knownFormat(format string) bool {
	for _, f := range report.Formats() {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
