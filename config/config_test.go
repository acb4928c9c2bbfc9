package config

import (
	"bytes"
	"testing"

	"github.com/mahbod-afarin/liveness/ir"
	"github.com/mahbod-afarin/liveness/pass"
	"github.com/mahbod-afarin/liveness/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	o, err := Parse("liveness", []string{"./..."})
	require.NoError(t, err)
	assert.Equal(t, "text", o.Format)
	assert.Equal(t, []string{"./..."}, o.Args)
	assert.False(t, o.Tests)
	assert.GreaterOrEqual(t, o.Threads, 1)

	policy, err := o.Policy()
	require.NoError(t, err)
	assert.Equal(t, pass.DefaultPolicy().Excluded(), policy.Excluded())

	re, err := o.FuncFilter()
	require.NoError(t, err)
	assert.Nil(t, re)
}

func TestParse_Flags(t *testing.T) {
	o, err := Parse("liveness", []string{
		"-debug", "-format", "dot", "-o", "out.dot", "-threads", "3",
		"-tests", "-func", `^main\.`, "-exclude", "alloca, icmp", "pkg",
	})
	require.NoError(t, err)
	assert.True(t, o.Debug)
	assert.Equal(t, "dot", o.Format)
	assert.Equal(t, "out.dot", o.Output)
	assert.Equal(t, 3, o.Threads)
	assert.True(t, o.Tests)
	assert.Equal(t, []string{"pkg"}, o.Args)

	policy, err := o.Policy()
	require.NoError(t, err)
	assert.Equal(t, []ir.Category{ir.Allocation, ir.Comparison}, policy.Excluded())

	re, err := o.FuncFilter()
	require.NoError(t, err)
	assert.True(t, re.MatchString("main.main"))
}

func TestParse_ExcludeNone(t *testing.T) {
	o, err := Parse("liveness", []string{"-exclude", "none"})
	require.NoError(t, err)
	policy, err := o.Policy()
	require.NoError(t, err)
	assert.Empty(t, policy.Excluded())
	assert.True(t, policy.Tracks(ir.Store))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("liveness", []string{"-format", "pdf"})
	assert.ErrorIs(t, err, report.ErrUnknownFormat)

	_, err = Parse("liveness", []string{"-threads", "0"})
	assert.Error(t, err)

	_, err = Parse("liveness", []string{"-exclude", "alloc,phi"})
	assert.Error(t, err)

	_, err = Parse("liveness", []string{"-func", "("})
	assert.Error(t, err)

	_, err = Parse("liveness", []string{"-nope"})
	assert.Error(t, err)
}

func TestPrintDefaults(t *testing.T) {
	var buf bytes.Buffer
	PrintDefaults(&buf)
	for _, name := range []string{"-debug", "-format", "-threads", "-exclude", "-reachable"} {
		assert.Contains(t, buf.String(), name)
	}
}

func TestExcludedPkgs(t *testing.T) {
	assert.Contains(t, ExcludedPkgs, "runtime")
	assert.NotContains(t, ExcludedPkgs, "main")
}
