package pass

import (
	"github.com/mahbod-afarin/liveness/ir"
	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/container/intsets"
)

// BlockState is the per-block record of the liveness pass. USE and KILL are
// fixed once extraction finishes; LIVE_OUT is owned by the solver.
type BlockState struct {
	block *ir.Block
	use   intsets.Sparse
	kill  intsets.Sparse
	out   intsets.Sparse
}

func NewBlockState(b *ir.Block) *BlockState {
	return &BlockState{block: b}
}

func (bs *BlockState) Block() *ir.Block {
	return bs.block
}

func (bs *BlockState) Use() *intsets.Sparse {
	return &bs.use
}

func (bs *BlockState) Kill() *intsets.Sparse {
	return &bs.kill
}

func (bs *BlockState) LiveOut() *intsets.Sparse {
	return &bs.out
}

// extract scans the block in program order. An operand already in KILL is
// shadowed by the earlier local definition and is skipped; store operands
// are killed after they are scanned; a named result is killed after all
// operands of its instruction.
func (bs *BlockState) extract(policy UsePolicy, names *Names) {
	for _, ins := range bs.block.Instrs {
		track := policy.Tracks(ins.Category)
		for _, op := range ins.Operands {
			id := names.Intern(op)
			if id < 0 || bs.kill.Has(id) {
				continue
			}
			if track {
				bs.use.Insert(id)
			}
			if ins.Category == ir.Store {
				bs.kill.Insert(id)
			}
		}
		if id := names.Intern(ins.Result); id >= 0 {
			bs.kill.Insert(id)
		}
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("  %s: use = %v, kill = %v", bs.block.Name, names.Strings(&bs.use), names.Strings(&bs.kill))
	}
}

// ExtractUseKill computes USE and KILL for every block of u. The returned
// slice is indexed by block id.
func ExtractUseKill(u *ir.Unit, policy UsePolicy, names *Names) []*BlockState {
	states := make([]*BlockState, len(u.Blocks))
	for _, b := range u.Blocks {
		bs := NewBlockState(b)
		bs.extract(policy, names)
		states[b.ID] = bs
	}
	return states
}
