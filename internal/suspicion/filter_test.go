package suspicion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyQueryRejected(t *testing.T) {
	f := NewLevenshteinFilter()
	accept, reason := f.Check("   ")
	assert.False(t, accept)
	assert.NotEmpty(t, reason)
}

func TestShortQueryAlwaysAccepted(t *testing.T) {
	f := NewLevenshteinFilter()
	accept, _ := f.Check("hi")
	assert.True(t, accept)
}

func TestDegenerateRepeatedRunRejected(t *testing.T) {
	f := NewLevenshteinFilter()
	accept, reason := f.Check("aaaaaaaaaaaaaaaa")
	assert.False(t, accept)
	assert.NotEmpty(t, reason)
}

func TestOrdinaryQueryAccepted(t *testing.T) {
	f := NewLevenshteinFilter()
	accept, _ := f.Check("best italian restaurants nearby")
	assert.True(t, accept)
}
