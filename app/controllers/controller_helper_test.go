package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimePtr(t *testing.T) {
	assert.Equal(t, "", formatTimePtr(nil))

	ts := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-14T09:30:00Z", formatTimePtr(&ts))
}
