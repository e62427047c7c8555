package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_Deterministic(t *testing.T) {
	first := BuildPrompt("A Walk", "I saw a dog in the park")
	second := BuildPrompt("A Walk", "I saw a dog in the park")
	assert.Equal(t, first, second)
}

func TestBuildPrompt_UsesBothInputs(t *testing.T) {
	prompt := BuildPrompt("A Walk", "I saw a dog in the park")
	assert.Contains(t, prompt, "A Walk")
	assert.Contains(t, prompt, "I saw a dog in the park")
}

func TestBuildPrompt_InputSensitive(t *testing.T) {
	base := BuildPrompt("A Walk", "I saw a dog in the park")
	assert.NotEqual(t, base, BuildPrompt("A Run", "I saw a dog in the park"))
	assert.NotEqual(t, base, BuildPrompt("A Walk", "I saw a cat in the park"))
}
