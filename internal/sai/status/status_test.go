package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTextRoundTrip(t *testing.T) {
	for _, c := range []Code{Success, InvalidParameter, ItemAlreadyExists, MandatoryAttributeMissing, NotImplemented, Failure} {
		got, ok := Parse(c.Text())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
}

func TestParseUnknown(t *testing.T) {
	got, ok := Parse("99")
	assert.False(t, ok)
	assert.Equal(t, Failure, got)
}

func TestOK(t *testing.T) {
	assert.True(t, Success.OK())
	assert.False(t, Failure.OK())
}
