package pass

import (
	"fmt"

	"github.com/mahbod-afarin/liveness/ir"
	"golang.org/x/tools/container/intsets"
)

// Result holds the converged liveness of one unit.
type Result struct {
	Unit       *ir.Unit
	Iterations int

	names  *Names
	states []*BlockState
	policy UsePolicy
}

// liveOutOf evaluates the live-out equation of b against the current
// states, writing the result to dst. tmp is scratch space.
func (r *Result) liveOutOf(b *ir.Block, dst, tmp *intsets.Sparse) {
	dst.Clear()
	for _, s := range b.Succs {
		ss := r.states[s.ID]
		tmp.Difference(&ss.out, &ss.kill)
		dst.UnionWith(&ss.use)
		dst.UnionWith(tmp)
	}
}

func (r *Result) state(b *ir.Block) *BlockState {
	if b == nil || b.ID < 0 || b.ID >= len(r.states) || r.states[b.ID].block != b {
		panic(fmt.Sprintf("liveness: block %v does not belong to unit %s", b, r.Unit.Name))
	}
	return r.states[b.ID]
}

// LiveOut returns the sorted names live at the exit of b.
func (r *Result) LiveOut(b *ir.Block) []string {
	return r.names.Strings(&r.state(b).out)
}

// LiveIn derives the names live at the entry of b as USE ∪ (LIVE_OUT - KILL).
func (r *Result) LiveIn(b *ir.Block) []string {
	var in intsets.Sparse
	bs := r.state(b)
	in.Difference(&bs.out, &bs.kill)
	in.UnionWith(&bs.use)
	return r.names.Strings(&in)
}

func (r *Result) Use(b *ir.Block) []string {
	return r.names.Strings(&r.state(b).use)
}

func (r *Result) Kill(b *ir.Block) []string {
	return r.names.Strings(&r.state(b).kill)
}

// Policy returns the use policy the result was computed with.
func (r *Result) Policy() UsePolicy {
	return r.policy
}

// Map returns the live-out sets keyed by block name.
func (r *Result) Map() map[string][]string {
	m := make(map[string][]string, len(r.states))
	for _, bs := range r.states {
		m[bs.block.Name] = r.names.Strings(&bs.out)
	}
	return m
}

// Verify re-evaluates the equation for every block and fails if any block
// is not at the fixed point.
func (r *Result) Verify() error {
	var candidate, tmp intsets.Sparse
	for _, b := range r.Unit.Blocks {
		r.liveOutOf(b, &candidate, &tmp)
		if out := &r.states[b.ID].out; !candidate.Equals(out) {
			return fmt.Errorf("unit %s, block %s: live-out %v is not a fixed point, want %v",
				r.Unit.Name, b.Name, r.names.Strings(out), r.names.Strings(&candidate))
		}
	}
	return nil
}
