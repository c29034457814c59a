package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMediaKind(t *testing.T) {
	for input, want := range map[string]MediaKind{
		"movie":    MediaKindMovie,
		"MOVIE":    MediaKindMovie,
		" series ": MediaKindSeries,
		"Series":   MediaKindSeries,
	} {
		got, err := ParseMediaKind(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	for _, input := range []string{"", "documentary", "films"} {
		_, err := ParseMediaKind(input)
		assert.Error(t, err, input)
	}
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"Action", "Sci-Fi"}

	value, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Action","Sci-Fi"]`, value)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)

	require.NoError(t, scanned.Scan([]byte(`["Drama"]`)))
	assert.Equal(t, StringList{"Drama"}, scanned)
}

func TestStringListNilHandling(t *testing.T) {
	var list StringList

	value, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	var scanned StringList
	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, StringList{}, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestStringListContains(t *testing.T) {
	list := StringList{"Action", "Crime"}
	assert.True(t, list.Contains("Crime"))
	assert.False(t, list.Contains("crime"))
	assert.False(t, list.Contains("Drama"))
}
