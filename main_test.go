package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	period, err := parseMonth("2025-03", prague, time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, prague), period)

	// 23:30 UTC on Jan 31 is already February in Prague.
	now := time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC)
	period, err = parseMonth("", prague, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, prague), period)

	_, err = parseMonth("03/2025", prague, now)
	assert.Error(t, err)
}
