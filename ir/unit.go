// Package ir defines the read-only program representation consumed by the
// liveness pass: a unit of basic blocks connected by control flow.
package ir

import (
	"fmt"
	"strings"
)

// Instruction is a single operation inside a basic block. Empty operand or
// result strings denote unnamed values that cannot be tracked.
type Instruction struct {
	Category Category
	Operands []string
	Result   string
	Term     bool   // Set for the terminating instruction of a block.
	Text     string // Optional textual form, used only for printing.
}

// Block is a basic block. ID is its index in Unit.Blocks.
type Block struct {
	ID     int
	Name   string
	Instrs []*Instruction
	Succs  []*Block
	Preds  []*Block
}

// Unit is a function-like body made of basic blocks.
type Unit struct {
	Name   string
	Blocks []*Block
}

func NewUnit(name string) *Unit {
	return &Unit{Name: name}
}

// NewBlock appends an empty block to u. An empty name is replaced by
// "bb<id>".
func (u *Unit) NewBlock(name string) *Block {
	b := &Block{ID: len(u.Blocks), Name: name}
	if b.Name == "" {
		b.Name = fmt.Sprintf("bb%d", b.ID)
	}
	u.Blocks = append(u.Blocks, b)
	return b
}

// Entry returns the first block, or nil for an empty unit.
func (u *Unit) Entry() *Block {
	if len(u.Blocks) == 0 {
		return nil
	}
	return u.Blocks[0]
}

// Exits returns the blocks without successors.
func (u *Unit) Exits() []*Block {
	var exits []*Block
	for _, b := range u.Blocks {
		if len(b.Succs) == 0 {
			exits = append(exits, b)
		}
	}
	return exits
}

// Block looks a block up by name.
func (u *Unit) Block(name string) *Block {
	for _, b := range u.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func (u *Unit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unit %s\n", u.Name)
	for _, b := range u.Blocks {
		sb.WriteString(b.String())
	}
	return sb.String()
}

// Emit appends a non-terminating instruction and returns it.
func (b *Block) Emit(cat Category, result string, operands ...string) *Instruction {
	ins := &Instruction{
		Category: cat,
		Operands: operands,
		Result:   result,
	}
	b.Instrs = append(b.Instrs, ins)
	return ins
}

// Jump terminates b with an unconditional branch to dst.
func (b *Block) Jump(dst *Block) *Instruction {
	return b.terminate(Branch, nil, dst)
}

// If terminates b with a conditional branch on cond.
func (b *Block) If(cond string, thn, els *Block) *Instruction {
	return b.terminate(Branch, []string{cond}, thn, els)
}

// Return terminates b without successors.
func (b *Block) Return(operands ...string) *Instruction {
	return b.terminate(Other, operands)
}

// Unreachable terminates b without successors or operands.
func (b *Block) Unreachable() *Instruction {
	return b.terminate(Other, nil)
}

// Terminate appends a terminator of category cat that transfers control to
// succs, linking the predecessor edges of every successor.
func (b *Block) Terminate(cat Category, operands []string, succs ...*Block) *Instruction {
	return b.terminate(cat, operands, succs...)
}

func (b *Block) terminate(cat Category, operands []string, succs ...*Block) *Instruction {
	ins := &Instruction{
		Category: cat,
		Operands: operands,
		Term:     true,
	}
	b.Instrs = append(b.Instrs, ins)
	for _, s := range succs {
		b.Succs = append(b.Succs, s)
		s.Preds = append(s.Preds, b)
	}
	return ins
}

// Terminator returns the last instruction of b if it is a terminator.
func (b *Block) Terminator() *Instruction {
	if n := len(b.Instrs); n > 0 && b.Instrs[n-1] != nil && b.Instrs[n-1].Term {
		return b.Instrs[n-1]
	}
	return nil
}

func (b *Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:", b.Name)
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.Name
		}
		fmt.Fprintf(&sb, " ; preds = %s", strings.Join(preds, ", "))
	}
	sb.WriteByte('\n')
	for _, ins := range b.Instrs {
		sb.WriteByte('\t')
		sb.WriteString(ins.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (ins *Instruction) String() string {
	if ins.Text != "" {
		return ins.Text
	}
	var sb strings.Builder
	if ins.Result != "" {
		fmt.Fprintf(&sb, "%s = ", ins.Result)
	}
	sb.WriteString(ins.Category.String())
	for i, op := range ins.Operands {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		if op == "" {
			op = "_"
		}
		sb.WriteString(op)
	}
	return sb.String()
}
