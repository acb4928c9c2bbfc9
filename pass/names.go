package pass

import (
	"sort"

	"golang.org/x/tools/container/intsets"
)

// Names interns variable names into dense ids so that name sets can be
// kept as sparse bit sets. A table belongs to a single pass invocation.
type Names struct {
	ids   map[string]int
	names []string
}

func NewNames() *Names {
	return &Names{ids: make(map[string]int)}
}

// Intern returns the id of name, allocating one if needed. The empty name
// is never interned and yields -1.
func (n *Names) Intern(name string) int {
	if name == "" {
		return -1
	}
	if id, ok := n.ids[name]; ok {
		return id
	}
	id := len(n.names)
	n.ids[name] = id
	n.names = append(n.names, name)
	return id
}

// Lookup returns the id of an already interned name.
func (n *Names) Lookup(name string) (int, bool) {
	id, ok := n.ids[name]
	return id, ok
}

func (n *Names) Name(id int) string {
	return n.names[id]
}

func (n *Names) Len() int {
	return len(n.names)
}

// Strings returns the members of s as sorted names.
func (n *Names) Strings(s *intsets.Sparse) []string {
	var space [16]int
	ids := s.AppendTo(space[:0])
	res := make([]string, len(ids))
	for i, id := range ids {
		res[i] = n.names[id]
	}
	sort.Strings(res)
	return res
}
