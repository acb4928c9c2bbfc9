//go:build llvm

package llvmir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mahbod-afarin/liveness/ir"
	"github.com/mahbod-afarin/liveness/pass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const module = `
define i32 @f(i32 %x) {
entry:
  %a = alloca i32
  store i32 %x, i32* %a
  %c = icmp sgt i32 %x, 10
  br i1 %c, label %then, label %done

then:
  %y = add i32 %x, 1
  ret i32 %y

done:
  ret i32 0
}

define void @loop(i32 %n) {
  br label %1

1:
  %i = phi i32 [ 0, %0 ], [ %next, %1 ]
  %next = add i32 %i, 1
  %more = icmp slt i32 %next, %n
  br i1 %more, label %1, label %2

2:
  ret void
}

declare i32 @g()
`

const invokeModule = `
declare i32 @g()

declare i32 @__gxx_personality_v0(...)

define i32 @h(i1 %c) personality i32 (...)* @__gxx_personality_v0 {
entry:
  br i1 %c, label %call, label %done

call:
  %r = invoke i32 @g() to label %ok unwind label %lp

ok:
  ret i32 %r

lp:
  %x = landingpad { i8*, i32 } cleanup
  ret i32 0

done:
  ret i32 1
}
`

func load(t *testing.T) []*ir.Unit {
	return loadSource(t, module)
}

func loadSource(t *testing.T, src string) []*ir.Unit {
	path := filepath.Join(t.TempDir(), "m.ll")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	units, err := Load(path)
	require.NoError(t, err)
	return units
}

func TestLoad(t *testing.T) {
	units := load(t)
	require.Len(t, units, 2)
	u := units[0]
	assert.Equal(t, "f", u.Name)
	require.NoError(t, ir.Validate(u))
	require.Len(t, u.Blocks, 3)
	assert.Equal(t, "entry", u.Blocks[0].Name)

	entry := u.Blocks[0].Instrs
	assert.Equal(t, ir.Allocation, entry[0].Category)
	assert.Equal(t, "a", entry[0].Result)
	assert.Equal(t, ir.Store, entry[1].Category)
	assert.Equal(t, []string{"x", "a"}, entry[1].Operands)
	assert.Equal(t, ir.Comparison, entry[2].Category)
	assert.Equal(t, ir.Branch, entry[3].Category)
	assert.True(t, entry[3].Term)
	assert.ElementsMatch(t, []*ir.Block{u.Block("then"), u.Block("done")}, u.Blocks[0].Succs)

	res, err := pass.NewLivenessPass().Run(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, res.LiveOut(u.Block("entry")))
	assert.Empty(t, res.LiveOut(u.Block("then")))
	assert.Empty(t, res.LiveOut(u.Block("done")))
}

func TestLoad_UnnamedBlocks(t *testing.T) {
	u := load(t)[1]
	require.NoError(t, ir.Validate(u))
	assert.Equal(t, []string{"bb0", "bb1", "bb2"}, []string{u.Blocks[0].Name, u.Blocks[1].Name, u.Blocks[2].Name})
	assert.Contains(t, u.Blocks[1].Succs, u.Blocks[1])

	res, err := pass.NewLivenessPass().Run(u)
	require.NoError(t, err)
	// The phi reads next before the block defines it; n is only compared.
	assert.Equal(t, []string{"next"}, res.LiveOut(u.Blocks[1]))
	assert.Equal(t, []string{"next"}, res.LiveOut(u.Blocks[0]))
	assert.Equal(t, []string{"next"}, res.Use(u.Blocks[1]))
}

func TestLoad_InvokeDefinesResult(t *testing.T) {
	units := loadSource(t, invokeModule)
	require.Len(t, units, 1)
	u := units[0]
	require.NoError(t, ir.Validate(u))

	call := u.Block("call")
	require.NotNil(t, call)
	term := call.Terminator()
	require.NotNil(t, term)
	assert.Equal(t, "r", term.Result)
	assert.ElementsMatch(t, []*ir.Block{u.Block("ok"), u.Block("lp")}, call.Succs)

	res, err := pass.NewLivenessPass().Run(u)
	require.NoError(t, err)
	assert.Contains(t, res.Kill(call), "r")
	assert.Equal(t, []string{"r"}, res.LiveOut(call))
	assert.NotContains(t, res.LiveIn(call), "r")
	assert.Empty(t, res.LiveOut(u.Block("entry")))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ll"))
	assert.Error(t, err)
}
