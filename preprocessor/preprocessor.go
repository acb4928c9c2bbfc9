package preprocessor

import (
	"go/types"
	"regexp"
	"sort"
	"strings"

	"github.com/mahbod-afarin/liveness/ir"
	"github.com/sirupsen/logrus"
	"golang.org/x/tools/go/ssa"
)

// Preprocessor collects the functions of a set of SSA packages and converts
// them to program units.
type Preprocessor struct {
	program     *ssa.Program
	ExcludedPkg map[string]bool
	Filter      *regexp.Regexp
	sources     map[*ir.Unit]*ssa.Function
}

func NewPreprocessor(prog *ssa.Program, excluded []string) *Preprocessor {
	excludedPkg := make(map[string]bool)
	for _, pkg := range excluded {
		excludedPkg[pkg] = true
	}
	return &Preprocessor{
		program:     prog,
		ExcludedPkg: excludedPkg,
		sources:     make(map[*ir.Unit]*ssa.Function),
	}
}

// Run returns one unit per function with a body, sorted by function name.
func (p *Preprocessor) Run(packages []*ssa.Package) []*ir.Unit {
	logrus.Debugln("Preprocessing...")
	seen := make(map[*ssa.Function]bool)
	var functions []*ssa.Function
	var visit func(function *ssa.Function)
	visit = func(function *ssa.Function) {
		if function == nil || seen[function] {
			return
		}
		seen[function] = true
		// Skip external functions.
		if function.Blocks == nil {
			return
		}
		if p.Filter == nil || p.Filter.MatchString(function.String()) {
			functions = append(functions, function)
		}
		for _, anonFn := range function.AnonFuncs {
			visit(anonFn)
		}
	}

	for _, pkg := range packages {
		if pkg == nil {
			continue
		}
		if p.excluded(pkg) {
			logrus.Debugf("Exclude pkg %s", pkg)
			continue
		}
		logrus.Debugf("Preprocessing %s", pkg)
		for _, member := range pkg.Members {
			if function, ok := member.(*ssa.Function); ok {
				visit(function)
			} else if typ, ok := member.(*ssa.Type); ok {
				// For a named type, we visit all its methods.
				if namedType, ok := typ.Type().(*types.Named); ok {
					for i := 0; i < namedType.NumMethods(); i++ {
						visit(p.program.FuncValue(namedType.Method(i)))
					}
				}
			}
		}
	}

	sort.Slice(functions, func(i, j int) bool {
		return functions[i].String() < functions[j].String()
	})
	units := make([]*ir.Unit, len(functions))
	for i, function := range functions {
		logrus.Debugf("visiting %s: %s", function, function.Signature)
		units[i] = FromFunction(function)
		p.sources[units[i]] = function
	}
	return units
}

// Function returns the SSA function a unit was converted from.
func (p *Preprocessor) Function(u *ir.Unit) *ssa.Function {
	return p.sources[u]
}

// excluded matches the package path or its first element. The package name
// is not consulted: a user package named sort is still analysed.
func (p *Preprocessor) excluded(pkg *ssa.Package) bool {
	path := pkg.Pkg.Path()
	root := strings.Split(path, "/")[0]
	return p.ExcludedPkg[path] || p.ExcludedPkg[root]
}
