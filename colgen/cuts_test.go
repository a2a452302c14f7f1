// SPDX-License-Identifier: MIT

package colgen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/branchprice/colgen"
	"github.com/katalvlaran/branchprice/internal/testkit"
)

// scriptedCuts returns one batch of inequalities per call.
type scriptedCuts struct {
	batches [][]colgen.Inequality
	err     error
	calls   int
}

func (g *scriptedCuts) Name() string { return "scripted" }

func (g *scriptedCuts) GenerateInequalities(context.Context, []*column) ([]colgen.Inequality, error) {
	if g.err != nil {
		return nil, g.err
	}
	call := g.calls
	g.calls++
	if call < len(g.batches) {
		return g.batches[call], nil
	}

	return nil, nil
}

func TestCutHandler_SeparateSkipsKnownInequalities(t *testing.T) {
	master := testkit.NewMaster(nil, []colgen.Inequality{testkit.Inequality{ID: "known"}})
	gen := &scriptedCuts{batches: [][]colgen.Inequality{{
		testkit.Inequality{ID: "known"},
		testkit.Inequality{ID: "new"},
		testkit.Inequality{ID: "new"},
	}}}
	h := colgen.NewCutHandler[*column](gen)

	added, err := h.Separate(context.Background(), nil, master)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Len(t, master.Inequalities(), 2)

	added, err = h.Separate(context.Background(), nil, master)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestCutHandler_GeneratorError(t *testing.T) {
	boom := errors.New("boom")
	h := colgen.NewCutHandler[*column]()
	h.AddGenerator(&scriptedCuts{err: boom})
	require.Len(t, h.Generators(), 1)

	_, err := h.Separate(context.Background(), nil, testkit.NewMaster(nil, nil))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "scripted")
}
