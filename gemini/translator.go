// Package gemini provides a cloud translator backend using Google Gemini.
// It is an alternative to the default local Ollama backend for machines
// that cannot run a model locally.
package gemini

import (
	"context"

	"github.com/ayoubaydy/tajreba"
	"google.golang.org/genai"
)

// DefaultModel is used when the request does not name a model.
const DefaultModel = "gemini-2.5-flash"

// Ensure Translator implements tajreba.Translator at compile time.
var _ tajreba.Translator = (*Translator)(nil)

// Translator implements tajreba.Translator using Google Gemini.
type Translator struct {
	client *genai.Client
}

// NewTranslator creates a new Translator.
func NewTranslator(client *genai.Client) *Translator {
	return &Translator{client: client}
}

// Translate submits the prompt and returns the model output.
func (t *Translator) Translate(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
	if req.Prompt == "" {
		return "", tajreba.Errorf(tajreba.EINVALID, "prompt required")
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	temp := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}

	result, err := t.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: req.Prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", tajreba.Errorf(tajreba.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}
