package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	loc, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	_, offset := time.Date(2026, 10, 19, 12, 0, 0, 0, loc).Zone()
	assert.Equal(t, 9*60*60, offset)

	_, err = Load("Nowhere/City")
	assert.Error(t, err)
}
