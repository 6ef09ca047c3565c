package stages

import "regexp"

// Placeholder tokens the model sometimes leaves in cover letters, e.g.
// [Company], {{name}}, <Your Name>. Wrapping them in inline code markers
// keeps them visually distinct in rendered markdown.
var placeholderPattern = regexp.MustCompile(`\{\{[^{}\n]+\}\}|\[[^\[\]\n]+\]|<[^<>\n]+>`)

// WrapPlaceholders wraps bracket/brace/angle placeholder patterns in backticks.
func WrapPlaceholders(text string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		return "`" + match + "`"
	})
}
