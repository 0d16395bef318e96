package depm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turbulenz/typescript/syntax"
)

func TestSourceUnitLoading(t *testing.T) {
	unit := NewSourceUnit("/proj/a.ts")

	assert.False(t, unit.Loaded)
	assert.Nil(t, unit.References)

	unit.SetContent(`/// <reference path="./b.ts" />`)

	assert.True(t, unit.Loaded)
	assert.Len(t, unit.References, 1)
	assert.Equal(t, syntax.RefDirective, unit.References[0].Kind)
}

func TestEnvironmentRejectsDuplicatePathKeys(t *testing.T) {
	env := NewEnvironment(CompilationSettings{CaseSensitivePaths: false})

	assert.True(t, env.AddUnit(NewSourceUnit("/proj/a.ts")))
	assert.False(t, env.AddUnit(NewSourceUnit("/proj/A.ts")))
	assert.Len(t, env.Units, 1)

	// With case-sensitive paths the two casings are distinct units.
	env = NewEnvironment(CompilationSettings{CaseSensitivePaths: true})

	assert.True(t, env.AddUnit(NewSourceUnit("/proj/a.ts")))
	assert.True(t, env.AddUnit(NewSourceUnit("/proj/A.ts")))
	assert.Len(t, env.Units, 2)
}

func TestEnvironmentOrderIsAppendOnly(t *testing.T) {
	env := NewEnvironment(CompilationSettings{})

	env.AddUnit(NewSourceUnit("/proj/c.ts"))
	env.AddUnit(NewSourceUnit("/proj/a.ts"))
	env.AddUnit(NewSourceUnit("/proj/b.ts"))

	// Discovery order, not lexical order.
	assert.Equal(t, []string{"/proj/c.ts", "/proj/a.ts", "/proj/b.ts"}, env.Paths())
}
