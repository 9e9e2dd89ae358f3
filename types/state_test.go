package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	BaseState
	Count int
}

func (s *counterState) Clone() *counterState {
	c := *s
	return &c
}

var _ State[*counterState] = (*counterState)(nil)

func TestBaseState_ZeroValue(t *testing.T) {
	var s BaseState

	assert.True(t, s.Initial(), "fresh state is initial")
	assert.False(t, s.Changed(), "fresh state is unchanged")
}

func TestBaseState_Lifecycle(t *testing.T) {
	var s BaseState

	s.MarkChanged()
	assert.True(t, s.Changed())
	assert.True(t, s.Initial(), "marking does not commit")

	s.ClearChanged()
	assert.False(t, s.Changed())
	assert.False(t, s.Initial(), "committed state is no longer initial")

	s.MarkChanged()
	assert.True(t, s.Changed())
	assert.False(t, s.Initial())
}

func TestState_CloneCarriesFlags(t *testing.T) {
	s := &counterState{Count: 3}
	s.MarkChanged()

	c := s.Clone()
	require.NotSame(t, s, c)
	assert.Equal(t, 3, c.Count)
	assert.True(t, c.Changed())
	assert.True(t, c.Initial())

	// Mutating the clone leaves the original untouched.
	c.Count = 9
	c.ClearChanged()
	assert.Equal(t, 3, s.Count)
	assert.True(t, s.Changed())
}
