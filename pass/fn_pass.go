package pass

import (
	"errors"
	"fmt"

	"github.com/mahbod-afarin/liveness/ir"
	"github.com/oleiade/lane"
	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/container/intsets"
)

var ErrNoConvergence = errors.New("liveness did not converge")

// Observer is called after every recomputation of a block's live-out set.
type Observer func(b *ir.Block, out []string)

type Option func(*LivenessPass)

func WithPolicy(p UsePolicy) Option {
	return func(pass *LivenessPass) {
		pass.policy = p
	}
}

func WithObserver(fn Observer) Option {
	return func(pass *LivenessPass) {
		pass.observer = fn
	}
}

// WithMaxIterations bounds the number of worklist pops. Zero means no bound.
func WithMaxIterations(n int) Option {
	return func(pass *LivenessPass) {
		pass.maxIterations = n
	}
}

// LivenessPass computes live-out sets for a unit. A pass only holds
// configuration; every Run starts from fresh state, so one pass can be
// shared by concurrent callers.
type LivenessPass struct {
	policy        UsePolicy
	observer      Observer
	maxIterations int
}

func NewLivenessPass(opts ...Option) *LivenessPass {
	pass := &LivenessPass{policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(pass)
	}
	return pass
}

func (pass *LivenessPass) Policy() UsePolicy {
	return pass.policy
}

// Run validates u, extracts USE/KILL per block and solves the live-out
// equations. u is never modified.
func (pass *LivenessPass) Run(u *ir.Unit) (*Result, error) {
	if err := ir.Validate(u); err != nil {
		return nil, err
	}
	log.Debugf("Liveness of %s: %d blocks", u.Name, len(u.Blocks))

	names := NewNames()
	states := ExtractUseKill(u, pass.policy, names)
	res := &Result{
		Unit:   u,
		names:  names,
		states: states,
		policy: pass.policy,
	}
	n, err := pass.solve(res)
	res.Iterations = n
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w after %d iterations", u.Name, err, n)
	}
	log.Debugf("Liveness of %s converged after %d iterations", u.Name, n)
	return res, nil
}

// solve runs the backward worklist iteration
//
//	LIVE_OUT[B] = ∪ { USE[S] ∪ (LIVE_OUT[S] - KILL[S]) | S ∈ succ(B) }
//
// seeded with every block. Predecessors are re-queued whenever a block's
// live-out set changes.
func (pass *LivenessPass) solve(res *Result) (int, error) {
	var candidate, through intsets.Sparse

	worklist := lane.NewQueue()
	for _, b := range res.Unit.Blocks {
		worklist.Enqueue(b)
	}

	iterations := 0
	for !worklist.Empty() {
		if pass.maxIterations > 0 && iterations >= pass.maxIterations {
			return iterations, ErrNoConvergence
		}
		iterations++
		block := worklist.Dequeue().(*ir.Block)
		res.liveOutOf(block, &candidate, &through)

		state := res.states[block.ID]
		changed := !candidate.Equals(&state.out)
		state.out.Copy(&candidate)

		if log.IsLevelEnabled(log.DebugLevel) {
			log.Debugf("  %s: live-out = %v (changed: %t)", block.Name, res.names.Strings(&state.out), changed)
		}
		if pass.observer != nil {
			pass.observer(block, res.names.Strings(&state.out))
		}
		if changed {
			for _, pred := range block.Preds {
				worklist.Enqueue(pred)
			}
		}
	}
	return iterations, nil
}
