package printing

import (
	"embed"
	"fmt"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplatePath is the embedded SLI template
const DefaultTemplatePath = "templates/sli.html"

// LoadTemplateContent loads a template from the embedded filesystem
func LoadTemplateContent(filePath string) (string, error) {
	content, err := templateFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template %s: %w", filePath, err)
	}
	return string(content), nil
}

// DefaultTemplateSource returns the embedded SLI template
func DefaultTemplateSource() string {
	content, err := LoadTemplateContent(DefaultTemplatePath)
	if err != nil {
		panic(err)
	}
	return content
}
