package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendingHelpMatchesWindow(t *testing.T) {
	assert.Equal(t, "Show trending scenes of the last 30 days", trendingCmd.Short)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42", "scene")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-3", "abc"} {
		_, err := parseID(raw, "scene")
		assert.Error(t, err, raw)
	}
}
