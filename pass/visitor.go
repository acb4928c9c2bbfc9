package pass

import (
	"github.com/mahbod-afarin/liveness/ir"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Visitor runs a LivenessPass over a list of units. Units are independent:
// every unit is solved with its own state, possibly on its own goroutine.
type Visitor struct {
	pass    *LivenessPass
	threads int
}

func NewVisitor(threads int, opts ...Option) *Visitor {
	if threads < 1 {
		threads = 1
	}
	return &Visitor{
		pass:    NewLivenessPass(opts...),
		threads: threads,
	}
}

// VisitUnits returns one result per unit, in input order. The first failing
// unit aborts the visit.
func (v *Visitor) VisitUnits(units []*ir.Unit) ([]*Result, error) {
	results := make([]*Result, len(units))
	if v.threads == 1 {
		for i, u := range units {
			r, err := v.VisitUnit(u)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(v.threads)
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			r, err := v.VisitUnit(u)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (v *Visitor) VisitUnit(u *ir.Unit) (*Result, error) {
	log.Debugf("visiting %s", u.Name)
	return v.pass.Run(u)
}
