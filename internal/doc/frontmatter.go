package doc

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the optional YAML block at the top of a page.
// Unknown fields cause parse errors (use meta for extensions).
type Frontmatter struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Tags        []string       `yaml:"tags"`
	Meta        map[string]any `yaml:"meta"`
}

// FrontmatterError reports invalid frontmatter YAML.
type FrontmatterError struct {
	Message string
}

func (e *FrontmatterError) Error() string {
	return "frontmatter: " + e.Message
}

// UnknownFieldError reports a frontmatter field that is not recognized.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("frontmatter: unknown field %q (use meta for custom fields)", e.Field)
}

// frontmatterPattern matches a leading --- ... --- block.
var frontmatterPattern = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*(\n|\z)`)

var knownFrontmatterFields = map[string]bool{
	"title":       true,
	"description": true,
	"tags":        true,
	"meta":        true,
}

// extractFrontmatter splits optional frontmatter from page content.
// Returns the parsed block (nil when absent), the remaining body, and
// the number of lines consumed by the block.
func extractFrontmatter(content string) (*Frontmatter, string, int, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if matches == nil {
		return nil, content, 0, nil
	}

	block := matches[0]
	yamlContent := matches[1]
	body := content[len(block):]
	consumed := strings.Count(block, "\n")

	// Decode into a map first to reject unknown fields.
	var rawMap map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &rawMap); err != nil {
		return nil, "", 0, &FrontmatterError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	for field := range rawMap {
		if !knownFrontmatterFields[field] {
			return nil, "", 0, &UnknownFieldError{Field: field}
		}
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return nil, "", 0, &FrontmatterError{Message: fmt.Sprintf("failed to parse frontmatter: %v", err)}
	}

	return &fm, body, consumed, nil
}
