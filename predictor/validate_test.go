package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNumeric_Accepts(t *testing.T) {
	valid := []string{"12", "-3.5", "1.2e-3", "+0.0", ".5", "  42  ", "6E+2", "0"}
	for _, s := range valid {
		assert.True(t, IsNumeric(s), "expected %q to be accepted", s)
	}
}

func TestIsNumeric_Rejects(t *testing.T) {
	invalid := []string{"", "   ", "abc", "1.2.3", "1e", "12x", "--1", "1e+", "e5", ".", "12."}
	for _, s := range invalid {
		assert.False(t, IsNumeric(s), "expected %q to be rejected", s)
	}
}

func TestNormalizeRaw(t *testing.T) {
	assert.Equal(t, "12.5", NormalizeRaw("　１２．５\t"))
	assert.Equal(t, "3\x0000", NormalizeRaw("3\x0000"))
	assert.Equal(t, "10²", NormalizeRaw(" 10² "))
	assert.Equal(t, "", NormalizeRaw(" \n "))
}
