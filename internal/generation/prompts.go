package generation

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/projpool-api/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultCatalogue []byte

// catalogue mirrors the layout of prompts.yaml.
type catalogue struct {
	Refine map[string]string `yaml:"refine"`
	Images string            `yaml:"images"`
	Revise string            `yaml:"revise"`
}

// Prompts renders refinement and revision prompts.
type Prompts struct {
	refine map[domain.Difficulty]*template.Template
	images *template.Template
	revise *template.Template
}

// DefaultPrompts parses the embedded prompt catalogue.
func DefaultPrompts() (*Prompts, error) {
	return ParsePrompts(defaultCatalogue)
}

// ParsePrompts parses a YAML prompt catalogue. Every difficulty must have a
// refine template and the revise template must be present.
func ParsePrompts(data []byte) (*Prompts, error) {
	var c catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt catalogue: %v", ErrInvalidConfig, err)
	}

	p := &Prompts{refine: make(map[domain.Difficulty]*template.Template, len(c.Refine))}
	for _, d := range domain.Difficulties() {
		text, ok := c.Refine[string(d)]
		if !ok || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: missing refine prompt for %q", ErrInvalidConfig, d)
		}
		tmpl, err := template.New("refine_" + string(d)).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: refine prompt %q: %v", ErrInvalidConfig, d, err)
		}
		p.refine[d] = tmpl
	}

	if strings.TrimSpace(c.Revise) == "" {
		return nil, fmt.Errorf("%w: missing revise prompt", ErrInvalidConfig)
	}
	revise, err := template.New("revise").Parse(c.Revise)
	if err != nil {
		return nil, fmt.Errorf("%w: revise prompt: %v", ErrInvalidConfig, err)
	}
	p.revise = revise

	if strings.TrimSpace(c.Images) != "" {
		images, err := template.New("images").Parse(c.Images)
		if err != nil {
			return nil, fmt.Errorf("%w: images prompt: %v", ErrInvalidConfig, err)
		}
		p.images = images
	}

	return p, nil
}

// Refine renders the refinement prompt for req.Difficulty. When the request
// carries images, the images note is appended.
func (p *Prompts) Refine(req RefineRequest) (string, error) {
	tmpl, ok := p.refine[req.Difficulty]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, req.Difficulty)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, req); err != nil {
		return "", fmt.Errorf("failed to render refine prompt: %w", err)
	}

	if len(req.Images) > 0 && p.images != nil {
		b.WriteString("\n\n")
		if err := p.images.Execute(&b, req); err != nil {
			return "", fmt.Errorf("failed to render images prompt: %w", err)
		}
	}
	return b.String(), nil
}

// Revise renders the revision prompt.
func (p *Prompts) Revise(req ReviseRequest) (string, error) {
	var b strings.Builder
	if err := p.revise.Execute(&b, req); err != nil {
		return "", fmt.Errorf("failed to render revise prompt: %w", err)
	}
	return b.String(), nil
}
