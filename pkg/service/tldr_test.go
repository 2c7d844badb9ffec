package service

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTldrCategoriesAlwaysIncludesCommon(t *testing.T) {
	assert.Contains(t, defaultTldrCategories(), "common")
}

func TestDefaultTldrCategoriesMatchesRunningOS(t *testing.T) {
	cats := defaultTldrCategories()
	switch runtime.GOOS {
	case "windows":
		assert.Contains(t, cats, "windows")
	case "darwin":
		assert.Contains(t, cats, "osx")
	default:
		assert.Contains(t, cats, "linux")
	}
}
