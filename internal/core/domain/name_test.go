package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genopipe/internal/core/domain"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	valid := []string{
		"align",
		"align reads",
		"expression.matrix (rice)",
		"stage-2:merge",
	}
	for _, name := range valid {
		t.Run("accepts "+name, func(t *testing.T) {
			t.Parallel()
			assert.NoError(t, domain.ValidateName(name))
		})
	}

	invalid := map[string]string{
		"empty":               "",
		"dot":                 ".",
		"dotdot":              "..",
		"leading whitespace":  " align",
		"trailing whitespace": "align\n",
		"path separator":      "align/reads",
		"backslash":           `align\reads`,
		"tilde":               "~align",
		"single quote":        "align's",
		"double quote":        `say "align"`,
		"nul byte":            "align\x00reads",
	}
	for label, name := range invalid {
		t.Run("rejects "+label, func(t *testing.T) {
			t.Parallel()
			err := domain.ValidateName(name)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidName))
		})
	}
}

func TestValidateCallKey(t *testing.T) {
	t.Parallel()

	// Call keys never name directories, so path-ish characters are fine.
	assert.NoError(t, domain.ValidateCallKey(`expr.correlate(matrix="a/b.csv", top=5)`))

	for label, key := range map[string]string{
		"empty":      "",
		"nul byte":   "f(\x00)",
		"whitespace": " f()",
	} {
		t.Run("rejects "+label, func(t *testing.T) {
			t.Parallel()
			err := domain.ValidateCallKey(key)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidName))
		})
	}
}

func TestShortID(t *testing.T) {
	t.Parallel()

	id := domain.ShortID("align reads")
	assert.Len(t, id, 16)
	assert.Equal(t, id, domain.ShortID("align reads"))
	assert.NotEqual(t, id, domain.ShortID("align reads 2"))
}

func TestVersionedName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "align", domain.VersionedName("align", 0))
	assert.Equal(t, "align", domain.VersionedName("align", 1))
	assert.Equal(t, "align@v2", domain.VersionedName("align", 2))
	assert.Equal(t, "align@v13", domain.VersionedName("align", 13))
}
