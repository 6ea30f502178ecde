package llm

import (
	_ "embed"
	"strings"
)

// DefaultPromptVersion is used when no version, or an unknown one, is requested.
const DefaultPromptVersion = "v2"

var (
	//go:embed prompts/v1.txt
	promptV1 string
	//go:embed prompts/v2.txt
	promptV2 string
)

// PromptTemplate returns the instruction template and whether the version was recognized.
func PromptTemplate(version string) (string, bool) {
	switch strings.TrimSpace(version) {
	case "v1":
		return promptV1, true
	case "v2":
		return promptV2, true
	default:
		return promptV2, false
	}
}

// BuildPrompt appends the article verbatim to the template for version.
func BuildPrompt(version, article string) string {
	template, _ := PromptTemplate(version)
	var b strings.Builder
	b.Grow(len(template) + len(article))
	b.WriteString(template)
	b.WriteString(article)
	return b.String()
}
