package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"aple", "apple", 1},
		{"żółw", "zolw", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
		assert.Equal(t, tt.want, Distance(tt.b, tt.a), "%q -> %q", tt.b, tt.a)
	}
}

func TestMostSimilar(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		target     string
		want       string
	}{
		{name: "typo", candidates: []string{"apple", "banana", "orange"}, target: "aple", want: "apple"},
		{name: "double letter", candidates: []string{"apple", "apricot", "avocado"}, target: "apricoot", want: "apricot"},
		{name: "split word", candidates: []string{"apple", "pineapple", "grape"}, target: "p napple", want: "pineapple"},
		{name: "exact", candidates: []string{"pear", "peach"}, target: "peach", want: "peach"},
		{name: "first of ties", candidates: []string{"cat", "bat", "rat"}, target: "hat", want: "cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MostSimilar(tt.candidates, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMostSimilar_Empty(t *testing.T) {
	_, err := MostSimilar(nil, "x")
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = MostSimilarFold([]string{}, "x")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestMostSimilarFold(t *testing.T) {
	candidates := []string{"Banana", "APPLE", "Orange"}

	got, err := MostSimilar(candidates, "apple")
	require.NoError(t, err)
	assert.Equal(t, "Banana", got)

	got, err = MostSimilarFold(candidates, "apple")
	require.NoError(t, err)
	assert.Equal(t, "APPLE", got)
}
