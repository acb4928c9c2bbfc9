package ir

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyUnit           = errors.New("unit has no basic blocks")
	ErrBadBlock            = errors.New("malformed basic block")
	ErrNoTerminator        = errors.New("basic block is not terminated")
	ErrMisplacedTerminator = errors.New("terminator is not the last instruction")
	ErrDanglingEdge        = errors.New("edge to a block outside the unit")
	ErrEdgeMismatch        = errors.New("predecessors are not the inverse of successors")
)

// ValidationError reports the unit and block that failed a structural check.
type ValidationError struct {
	Unit  string
	Block string
	Err   error
	Info  string
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Info != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Info)
	}
	if e.Block != "" {
		return fmt.Sprintf("unit %s, block %s: %s", e.Unit, e.Block, msg)
	}
	return fmt.Sprintf("unit %s: %s", e.Unit, msg)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the structural preconditions of the liveness pass. It must
// succeed before any set is computed for u.
func Validate(u *Unit) error {
	if u == nil || len(u.Blocks) == 0 {
		name := ""
		if u != nil {
			name = u.Name
		}
		return &ValidationError{Unit: name, Err: ErrEmptyUnit}
	}

	owned := make(map[*Block]bool, len(u.Blocks))
	names := make(map[string]bool, len(u.Blocks))
	for i, b := range u.Blocks {
		if b == nil {
			return &ValidationError{Unit: u.Name, Err: ErrBadBlock, Info: fmt.Sprintf("block %d is <nil>", i)}
		}
		if b.ID != i {
			return &ValidationError{Unit: u.Name, Block: b.Name, Err: ErrBadBlock,
				Info: fmt.Sprintf("id %d at index %d", b.ID, i)}
		}
		if names[b.Name] {
			return &ValidationError{Unit: u.Name, Block: b.Name, Err: ErrBadBlock, Info: "duplicate block name"}
		}
		names[b.Name] = true
		owned[b] = true
	}

	for _, b := range u.Blocks {
		if err := validateBlock(u, b, owned); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(u *Unit, b *Block, owned map[*Block]bool) error {
	for i, ins := range b.Instrs {
		if ins == nil {
			return &ValidationError{Unit: u.Name, Block: b.Name, Err: ErrBadBlock,
				Info: fmt.Sprintf("instruction %d is <nil>", i)}
		}
	}
	if b.Terminator() == nil {
		return &ValidationError{Unit: u.Name, Block: b.Name, Err: ErrNoTerminator}
	}
	for i, ins := range b.Instrs {
		if ins.Term && i != len(b.Instrs)-1 {
			return &ValidationError{Unit: u.Name, Block: b.Name, Err: ErrMisplacedTerminator,
				Info: fmt.Sprintf("instruction %d: %s", i, ins)}
		}
	}

	for _, s := range b.Succs {
		if !owned[s] {
			return &ValidationError{Unit: u.Name, Block: b.Name, Err: ErrDanglingEdge, Info: "successor " + edgeName(s)}
		}
		if count(s.Preds, b) != count(b.Succs, s) {
			return &ValidationError{Unit: u.Name, Block: b.Name, Err: ErrEdgeMismatch,
				Info: fmt.Sprintf("%s -> %s", b.Name, s.Name)}
		}
	}
	for _, p := range b.Preds {
		if !owned[p] {
			return &ValidationError{Unit: u.Name, Block: b.Name, Err: ErrDanglingEdge, Info: "predecessor " + edgeName(p)}
		}
		if count(p.Succs, b) != count(b.Preds, p) {
			return &ValidationError{Unit: u.Name, Block: b.Name, Err: ErrEdgeMismatch,
				Info: fmt.Sprintf("%s <- %s", b.Name, p.Name)}
		}
	}
	return nil
}

func count(blocks []*Block, b *Block) int {
	n := 0
	for _, e := range blocks {
		if e == b {
			n++
		}
	}
	return n
}

func edgeName(b *Block) string {
	if b == nil {
		return "<nil>"
	}
	return b.Name
}
