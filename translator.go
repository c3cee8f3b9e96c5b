package tajreba

import (
	"context"
	"time"
)

// TranslateRequest describes a single chunk translation.
type TranslateRequest struct {
	// Prompt is the complete instruction including the text to translate,
	// built by PromptTemplate.Build.
	Prompt string

	Model       string
	Temperature float32
}

// Translator translates one chunk of text through a language model.
type Translator interface {
	// Translate submits the prompt and returns the raw model output.
	// Returns EUNAVAILABLE if the inference backend cannot be reached.
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// TokenFunc receives incremental output tokens during streaming translation.
// Returning an error aborts the stream.
type TokenFunc func(token string) error

// StreamingTranslator is implemented by translators that can stream partial
// output as it is generated. The full output is still returned at the end.
type StreamingTranslator interface {
	Translator

	TranslateStream(ctx context.Context, req TranslateRequest, fn TokenFunc) (string, error)
}

// Model describes an installed model on the inference backend.
type Model struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// ModelLister lists models available on the inference backend.
type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}
