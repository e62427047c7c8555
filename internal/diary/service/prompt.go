package service

import "fmt"

const promptTemplate = "An evocative illustration for a diary entry titled %q. " +
	"Scene: %s. " +
	"Capture the mood of the day, emphasize the key actions described, " +
	"and use symbolic color and light cues that echo the title and the scene."

// BuildPrompt composes the image generation prompt from the translated
// title and content. Pure function: identical inputs always produce the
// identical prompt.
func BuildPrompt(translatedTitle, translatedContent string) string {
	return fmt.Sprintf(promptTemplate, translatedTitle, translatedContent)
}
