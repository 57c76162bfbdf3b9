package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToE164(t *testing.T) {
	got, err := ToE164(" +1 (650) 253-0000 ", UnknownRegion)
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", got)

	got, err = ToE164("020 794 0000", "GB")
	require.NoError(t, err)
	assert.Equal(t, "+442079400000", got)
}

func TestToE164Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "6502530000", "+1 000", "not a number"} {
		_, err := ToE164(in, UnknownRegion)
		assert.Error(t, err, in)
	}
}
