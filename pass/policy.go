package pass

import (
	"sort"

	"github.com/mahbod-afarin/liveness/ir"
)

// UsePolicy decides which instruction categories contribute their operands
// to a block's USE set. The zero value tracks every category.
type UsePolicy struct {
	excluded map[ir.Category]bool
}

// DefaultPolicy excludes the operands of allocations, stores, branches and
// comparisons from USE.
//
// A compared or branched-on value is still read at run time, so for such
// values the computed live-out sets under-approximate true liveness. Use
// NewUsePolicy with a smaller exclusion set to track them.
func DefaultPolicy() UsePolicy {
	return NewUsePolicy(ir.Allocation, ir.Store, ir.Branch, ir.Comparison)
}

func NewUsePolicy(excluded ...ir.Category) UsePolicy {
	p := UsePolicy{excluded: make(map[ir.Category]bool, len(excluded))}
	for _, c := range excluded {
		p.excluded[c] = true
	}
	return p
}

// Tracks reports whether operands of instructions in category c are uses.
func (p UsePolicy) Tracks(c ir.Category) bool {
	return !p.excluded[c]
}

// Excluded returns the excluded categories in ascending order.
func (p UsePolicy) Excluded() []ir.Category {
	res := make([]ir.Category, 0, len(p.excluded))
	for c, ok := range p.excluded {
		if ok {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
