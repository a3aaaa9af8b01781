package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCodeUppercased(t *testing.T) {
	assert.Equal(t, "US", NewStaticSanitizer("us").SafeCountryCode())
	assert.Equal(t, "GB", NewStaticSanitizer(" GB ").SafeCountryCode())
}

func TestInvalidCodeFallsBackToUnknown(t *testing.T) {
	assert.Equal(t, UnknownCode, NewStaticSanitizer("").SafeCountryCode())
	assert.Equal(t, UnknownCode, NewStaticSanitizer("USA").SafeCountryCode())
	assert.Equal(t, UnknownCode, NewStaticSanitizer("1").SafeCountryCode())
}
