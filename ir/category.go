package ir

import (
	"fmt"
	"strings"
)

// Category classifies an instruction for use/kill extraction.
type Category int

const (
	Other Category = iota
	Allocation
	Store
	Branch
	Comparison
)

var categoryNames = [...]string{
	Other:      "other",
	Allocation: "alloc",
	Store:      "store",
	Branch:     "br",
	Comparison: "cmp",
}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory accepts the short names printed by String as well as the
// LLVM opcode spellings.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "other":
		return Other, nil
	case "alloc", "alloca", "allocation":
		return Allocation, nil
	case "store":
		return Store, nil
	case "br", "branch":
		return Branch, nil
	case "cmp", "icmp", "comparison":
		return Comparison, nil
	}
	return Other, fmt.Errorf("unknown instruction category %q", s)
}
