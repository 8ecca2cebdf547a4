package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(nil, "anything at all"))
	assert.True(t, Allowed([]string{"Oat milk", "whole milk"}, " oat MILK "))
	assert.False(t, Allowed([]string{"oat milk"}, "soy milk"))
}

func TestClean(t *testing.T) {
	assert.Equal(t, []string{"rest", "walk"}, Clean([]string{" rest ", "", "   ", "walk"}))
	assert.Empty(t, Clean(nil))
}

func TestList(t *testing.T) {
	assert.Equal(t, "", List(nil))
	assert.Equal(t, "small", List([]string{"small"}))
	assert.Equal(t, "small, medium or large", List([]string{"small", "medium", "large"}))
}
