package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(s *Setting) []*Setting {
	var out []*Setting
	for derived := range s.Expand() {
		out = append(out, derived)
	}
	return out
}

// TestExpandCartesianProduct validates that two axes of three and two
// values produce six settings with deterministic names, the last axis
// cycling fastest.
func TestExpandCartesianProduct(t *testing.T) {
	t.Parallel()

	threads, err := NewVariableDef("-t {value}", "1,4,1", "", false)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3", "4"}, threads.Values)

	heuristic, err := NewVariableDef("--heu", "", "vsids;berkmin", false)
	require.NoError(t, err)

	base := &Setting{
		Name:    "default",
		Cmdline: "--stats",
		Variables: []VariableDef{
			{Cmd: "-t {value}", Values: []string{"1", "2", "4"}},
			heuristic,
		},
	}

	derived := collect(base)
	require.Len(t, derived, 6)

	names := make([]string, len(derived))
	for i, d := range derived {
		names[i] = d.Name
	}
	assert.Equal(t, []string{
		"default_1_vsids", "default_1_berkmin",
		"default_2_vsids", "default_2_berkmin",
		"default_4_vsids", "default_4_berkmin",
	}, names)

	assert.Equal(t, "--stats -t 1 --heu=vsids", derived[0].Cmdline)
	assert.Equal(t, "--stats -t 4 --heu=berkmin", derived[5].Cmdline)
}

func TestExpandWithoutVariablesPassesThrough(t *testing.T) {
	t.Parallel()

	base := &Setting{Name: "plain", Cmdline: "-q"}
	derived := collect(base)
	require.Len(t, derived, 1)
	assert.Same(t, base, derived[0])
}

func TestExpandPostVariable(t *testing.T) {
	t.Parallel()

	v, err := NewVariableDef("--seed", "", "1;2", true)
	require.NoError(t, err)

	base := &Setting{Name: "s", Cmdline: "-q", Variables: []VariableDef{v}}
	derived := collect(base)
	require.Len(t, derived, 2)
	assert.Equal(t, "-q", derived[0].Cmdline)
	assert.Equal(t, "--seed=1", derived[0].CmdlinePost)
	assert.Equal(t, "--seed=2", derived[1].CmdlinePost)
}

func TestExpandInheritsSettingAttributes(t *testing.T) {
	t.Parallel()

	v, err := NewVariableDef("-n", "", "1;2", false)
	require.NoError(t, err)

	base := &Setting{
		Name:         "s",
		Tags:         NewTagSet("basic"),
		DistTemplate: "templates/other.dist",
		DistOptions:  "#SBATCH --exclusive",
		Encodings:    []Encoding{{File: "enc.lp"}},
		Variables:    []VariableDef{v},
	}
	for _, d := range collect(base) {
		assert.True(t, d.Tags.Has("basic"))
		assert.Equal(t, base.DistTemplate, d.DistTemplate)
		assert.Equal(t, base.DistOptions, d.DistOptions)
		assert.Equal(t, base.Encodings, d.Encodings)
	}
}

func TestNewVariableDefValidation(t *testing.T) {
	t.Parallel()

	_, err := NewVariableDef("-t", "", "", false)
	assert.Error(t, err, "neither range nor pool")

	_, err = NewVariableDef("-t", "1,4,1", "a;b", false)
	assert.Error(t, err, "both range and pool")

	_, err = NewVariableDef("-t", "1,4,0", "", false)
	assert.Error(t, err, "zero step")

	_, err = NewVariableDef("-t", "4,1,1", "", false)
	assert.Error(t, err, "step walks away from end")

	_, err = NewVariableDef("-t", "1,4", "", false)
	assert.Error(t, err, "missing step")

	_, err = NewVariableDef("-t", "", "a;;b", false)
	assert.Error(t, err, "empty pool element")
}

func TestRangeDescending(t *testing.T) {
	t.Parallel()

	v, err := NewVariableDef("-t", "8,2,-3", "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "5", "2"}, v.Values)
}
