// Package gemini implements generation.Generator on Vertex AI Gemini through
// the google.golang.org/genai SDK.
//
// Calls are retried with exponential backoff and jitter for transient
// failures, wrapped in a circuit breaker, and timed in Prometheus. Safety
// blocks and empty answers are permanent and returned immediately. Project
// images are attached to refinement prompts as gs:// file parts so the model
// reads them directly from Cloud Storage.
package gemini
