//go:build llvm

// Package llvmir converts the functions of an LLVM module to program units.
package llvmir

import (
	"fmt"

	"github.com/mahbod-afarin/liveness/ir"
	log "github.com/sirupsen/logrus"
	"tinygo.org/x/go-llvm"
)

// Load parses the textual or bitcode LLVM module at path and converts every
// function with a body, in module order.
func Load(path string) ([]*ir.Unit, error) {
	buf, err := llvm.NewMemoryBufferFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	ctx := llvm.NewContext()
	defer ctx.Dispose()
	// ParseIR takes ownership of buf.
	m, err := ctx.ParseIR(buf)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer m.Dispose()
	return Convert(m), nil
}

// Convert converts the defined functions of m.
func Convert(m llvm.Module) []*ir.Unit {
	var units []*ir.Unit
	for fn := m.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		if fn.IsDeclaration() {
			continue
		}
		units = append(units, FromFunction(fn))
	}
	return units
}

// FromFunction converts one LLVM function. Unnamed blocks are named
// bb<index>.
func FromFunction(fn llvm.Value) *ir.Unit {
	u := ir.NewUnit(fn.Name())
	bbs := fn.BasicBlocks()
	index := make(map[llvm.BasicBlock]*ir.Block, len(bbs))
	blocks := make([]*ir.Block, len(bbs))
	for i, bb := range bbs {
		blocks[i] = u.NewBlock(bb.AsValue().Name())
		index[bb] = blocks[i]
	}

	for i, bb := range bbs {
		block := blocks[i]
		for inst := bb.FirstInstruction(); !inst.IsNil(); inst = llvm.NextInstruction(inst) {
			var operands []string
			var succs []*ir.Block
			for j := 0; j < inst.OperandsCount(); j++ {
				op := inst.Operand(j)
				if op.IsBasicBlock() {
					succs = append(succs, index[op.AsBasicBlock()])
					operands = append(operands, "")
					continue
				}
				operands = append(operands, valueName(op))
			}
			cat := category(inst.InstructionOpcode())
			if llvm.NextInstruction(inst).IsNil() {
				// invoke and callbr define a value as well as ending the block.
				term := block.Terminate(cat, operands, succs...)
				term.Result = inst.Name()
			} else {
				block.Emit(cat, inst.Name(), operands...)
			}
		}
	}
	log.Debugf("converted %s: %d blocks", u.Name, len(u.Blocks))
	return u
}

func category(op llvm.Opcode) ir.Category {
	switch op {
	case llvm.Alloca:
		return ir.Allocation
	case llvm.Store:
		return ir.Store
	case llvm.Br:
		return ir.Branch
	case llvm.ICmp:
		return ir.Comparison
	}
	return ir.Other
}

// valueName returns the name of a trackable operand. Constants and
// functions are not variables; unnamed values have an empty name already.
func valueName(v llvm.Value) string {
	if v.IsNil() || !v.IsAFunction().IsNil() || (v.IsConstant() && v.IsAGlobalVariable().IsNil()) {
		return ""
	}
	return v.Name()
}
