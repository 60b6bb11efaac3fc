package petstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllStates_CoversEveryCategory(t *testing.T) {
	states := AllStates()
	assert.Contains(t, states, StateIdle)
	assert.Contains(t, states, StateMorning)
	assert.Contains(t, states, StateClicked)
	assert.Contains(t, states, StateNewYear)
	assert.Len(t, states, len(categoryTable))
}

func TestAllStates_ReturnsAFreshCopyEachCall(t *testing.T) {
	a := AllStates()
	a[0] = PetState("mutated")
	b := AllStates()
	assert.NotContains(t, b, PetState("mutated"))
}
