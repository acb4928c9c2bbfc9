package analyzer

import (
	"errors"
	"fmt"
	"go/token"
	"regexp"

	"github.com/mahbod-afarin/liveness/pass"
	"github.com/mahbod-afarin/liveness/preprocessor"
	"github.com/mahbod-afarin/liveness/report"
	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/go/callgraph/static"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

var (
	ErrLoad    = errors.New("loading packages")
	ErrNoPkgs  = errors.New("package list empty")
	ErrNoMains = errors.New("no main packages")
)

type AnalyzerConfig struct {
	Paths            []string
	ExcludedPackages []string
	Tests            bool
	Threads          int
	Policy           pass.UsePolicy
	Functions        *regexp.Regexp
	// Reachable restricts the analysis to functions reachable from the
	// main and init functions of the loaded main packages.
	Reachable bool

	program    *ssa.Program
	packages   []*ssa.Package
	testOutput map[token.Position][]string
}

func NewAnalyzerConfig(paths []string, excluded []string) *AnalyzerConfig {
	return &AnalyzerConfig{
		Paths:            paths,
		ExcludedPackages: excluded,
		Threads:          1,
		Policy:           pass.DefaultPolicy(),
	}
}

// SetTestOutput makes Run record the report lines of every analysed
// function against the function's position.
func (a *AnalyzerConfig) SetTestOutput(out map[token.Position][]string) {
	a.testOutput = out
}

// Run loads the packages, converts their functions and solves liveness for
// each of them. Results are in function name order.
func (a *AnalyzerConfig) Run() ([]*pass.Result, error) {
	log.Infof("Loading packages %s", a.Paths)
	initial, err := packages.Load(&packages.Config{
		Mode:  packages.LoadAllSyntax,
		Tests: a.Tests,
	}, a.Paths...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if n := packages.PrintErrors(initial); n > 0 {
		return nil, fmt.Errorf("%w: %d error(s)", ErrLoad, n)
	}
	if len(initial) == 0 {
		return nil, ErrNoPkgs
	}
	for _, pkg := range initial {
		log.Debug(pkg.ID, pkg.GoFiles)
	}

	log.Infoln("Packages loaded. Building SSA...")
	var roots []*ssa.Package
	a.program, roots = ssautil.AllPackages(initial, 0)
	a.program.Build()
	a.packages = a.program.AllPackages()
	log.Infof("SSA built for %d packages", len(a.packages))

	preprocessor := preprocessor.NewPreprocessor(a.program, a.ExcludedPackages)
	preprocessor.Filter = a.Functions
	units := preprocessor.Run(roots)
	if a.Reachable {
		mains := mainPackages(roots)
		if len(mains) == 0 {
			return nil, ErrNoMains
		}
		reachable := ReachableFunctions(static.CallGraph(a.program), entryPoints(mains))
		kept := units[:0]
		for _, u := range units {
			if reachable[preprocessor.Function(u)] {
				kept = append(kept, u)
			}
		}
		units = kept
	}
	log.Infof("Analysing %d function(s)", len(units))

	visitor := pass.NewVisitor(a.Threads, pass.WithPolicy(a.Policy))
	results, err := visitor.VisitUnits(units)
	if err != nil {
		return nil, err
	}

	if a.testOutput != nil {
		for _, res := range results {
			a.recordTestOutput(preprocessor.Function(res.Unit), res)
		}
	}
	log.Infof("Liveness computed for %d function(s)", len(results))
	return results, nil
}

// Program returns the SSA program built by the last Run.
func (a *AnalyzerConfig) Program() *ssa.Program {
	return a.program
}

func (a *AnalyzerConfig) recordTestOutput(fn *ssa.Function, res *pass.Result) {
	if fn == nil || fn.Synthetic != "" || !fn.Pos().IsValid() {
		return
	}
	pos := a.program.Fset.Position(fn.Pos())
	a.testOutput[pos] = append(a.testOutput[pos], report.Lines(res)...)
}

func mainPackages(pkgs []*ssa.Package) []*ssa.Package {
	var mains []*ssa.Package
	for _, p := range pkgs {
		if p != nil && p.Pkg.Name() == "main" && p.Func("main") != nil {
			mains = append(mains, p)
		}
	}
	return mains
}

func entryPoints(mains []*ssa.Package) []*ssa.Function {
	var fns []*ssa.Function
	for _, p := range mains {
		for _, name := range []string{"init", "main"} {
			if fn := p.Func(name); fn != nil {
				fns = append(fns, fn)
			}
		}
	}
	return fns
}
