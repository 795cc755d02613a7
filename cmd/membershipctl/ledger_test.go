package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)

	from, to, err := parseRange("", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), to)

	from, to, err = parseRange("2026-02-01", "2026-03-01", now)
	require.NoError(t, err)
	assert.Equal(t, 28*24*time.Hour, to.Sub(from))

	_, _, err = parseRange("2026-03-01", "2026-03-01", now)
	assert.Error(t, err)

	_, _, err = parseRange("03/01/2026", "", now)
	assert.Error(t, err)
}
