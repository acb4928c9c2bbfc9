package preprocessor

import (
	"fmt"
	"go/token"

	"github.com/mahbod-afarin/liveness/ir"
	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/go/ssa"
)

// FromFunction converts the body of function into an ir.Unit. function is
// only read. External functions yield a unit without blocks.
func FromFunction(function *ssa.Function) *ir.Unit {
	u := ir.NewUnit(function.String())
	blocks := make([]*ir.Block, len(function.Blocks))
	for i, b := range function.Blocks {
		name := fmt.Sprintf("%d", b.Index)
		if b.Comment != "" {
			name = fmt.Sprintf("%d.%s", b.Index, b.Comment)
		}
		blocks[i] = u.NewBlock(name)
	}

	for i, b := range function.Blocks {
		block := blocks[i]
		for _, instr := range b.Instrs {
			cat, term := category(instr)
			operands := operandNames(instr)
			var ins *ir.Instruction
			if term {
				succs := make([]*ir.Block, len(b.Succs))
				for j, s := range b.Succs {
					succs[j] = blocks[s.Index]
				}
				ins = block.Terminate(cat, operands, succs...)
				ins.Result = resultName(instr)
			} else {
				ins = block.Emit(cat, resultName(instr), operands...)
			}
			ins.Text = instrString(instr)
		}
	}
	log.Debugf("converted %s: %d blocks", u.Name, len(u.Blocks))
	return u
}

// category maps an SSA instruction to its use/kill category and reports
// whether it terminates its block.
func category(instruction ssa.Instruction) (ir.Category, bool) {
	switch instr := instruction.(type) {
	case *ssa.Alloc:
		return ir.Allocation, false
	case *ssa.Store:
		return ir.Store, false
	case *ssa.If, *ssa.Jump:
		return ir.Branch, true
	case *ssa.Return, *ssa.Panic:
		return ir.Other, true
	case *ssa.BinOp:
		if isComparison(instr.Op) {
			return ir.Comparison, false
		}
	}
	return ir.Other, false
}

func isComparison(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	}
	return false
}

func operandNames(instr ssa.Instruction) []string {
	var space [8]*ssa.Value
	rands := instr.Operands(space[:0])
	names := make([]string, len(rands))
	for i, r := range rands {
		if r != nil {
			names[i] = valueName(*r)
		}
	}
	return names
}

// valueName returns the name of a trackable value. Constants, functions
// and builtins are not variables and stay unnamed.
func valueName(v ssa.Value) string {
	switch v.(type) {
	case nil, *ssa.Const, *ssa.Function, *ssa.Builtin:
		return ""
	}
	return v.Name()
}

func resultName(instr ssa.Instruction) string {
	if v, ok := instr.(ssa.Value); ok {
		return v.Name()
	}
	return ""
}

func instrString(instr ssa.Instruction) string {
	if v, ok := instr.(ssa.Value); ok {
		return fmt.Sprintf("%s = %s", v.Name(), v)
	}
	return instr.String()
}
