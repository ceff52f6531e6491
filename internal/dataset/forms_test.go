package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, []string{"sunset", "portrait", "abstract"},
		ParseKeywords(" sunset, portrait ,abstract,,  "))
	assert.Nil(t, ParseKeywords(""))
	assert.Nil(t, ParseKeywords(" , ,"))
}

func TestParseDescriptions(t *testing.T) {
	descriptions, err := ParseDescriptions(`{"image1.png": "A red flower"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"image1.png": "A red flower"}, descriptions)
}

func TestParseDescriptions_Blank(t *testing.T) {
	descriptions, err := ParseDescriptions("   ")
	require.NoError(t, err)
	assert.Empty(t, descriptions)
	assert.NotNil(t, descriptions)
}

func TestParseDescriptions_Malformed(t *testing.T) {
	_, err := ParseDescriptions("{bad")
	require.ErrorIs(t, err, ErrInvalidJSON)
}
