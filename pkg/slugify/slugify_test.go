package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func takenSet(values ...string) Taken {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return func(candidate string) (bool, error) {
		return set[candidate], nil
	}
}

func TestGenerate(t *testing.T) {
	got, err := Generate("Jazz Studio", takenSet())
	require.NoError(t, err)
	assert.Equal(t, "jazz-studio", got)

	got, err = Generate("Jazz Studio", takenSet("jazz-studio"))
	require.NoError(t, err)
	assert.Equal(t, "jazz-studio-1", got)

	got, err = Generate("Jazz Studio", takenSet("jazz-studio", "jazz-studio-1", "jazz-studio-2"))
	require.NoError(t, err)
	assert.Equal(t, "jazz-studio-3", got)
}

func TestGenerateExhausted(t *testing.T) {
	everything := func(string) (bool, error) { return true, nil }

	_, err := Generate("Jazz Studio", everything)
	assert.ErrorIs(t, err, ErrExhausted)

	_, err = GenerateNumber(everything)
	assert.ErrorIs(t, err, ErrExhausted)

	_, err = GenerateToken(everything)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestGenerateNumber(t *testing.T) {
	got, err := GenerateNumber(takenSet())
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	// 1 and 2 used, 3 free: smallest gap wins
	got, err = GenerateNumber(takenSet("1", "2"))
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestGenerateToken(t *testing.T) {
	seen := map[string]bool{}
	taken := func(candidate string) (bool, error) {
		defer func() { seen[candidate] = true }()
		return seen[candidate], nil
	}

	first, err := GenerateToken(taken)
	require.NoError(t, err)
	assert.Len(t, first, 40)

	second, err := GenerateToken(taken)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
