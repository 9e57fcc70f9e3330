// Package generation defines the boundary between the application core and
// the generative AI service that expands project labels into guidance text.
//
// The Generator interface is implemented by internal/platform/gemini. Prompt
// wording lives in an embedded YAML catalogue (prompts.yaml) and is rendered
// with text/template so that the adapter only deals with transport concerns.
package generation
