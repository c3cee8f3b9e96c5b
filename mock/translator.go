package mock

import (
	"context"

	"github.com/ayoubaydy/tajreba"
)

var (
	_ tajreba.Translator          = (*Translator)(nil)
	_ tajreba.StreamingTranslator = (*StreamingTranslator)(nil)
	_ tajreba.ModelLister         = (*ModelLister)(nil)
)

// Translator is a mock implementation of tajreba.Translator.
type Translator struct {
	TranslateFn func(ctx context.Context, req tajreba.TranslateRequest) (string, error)
}

func (t *Translator) Translate(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
	return t.TranslateFn(ctx, req)
}

// StreamingTranslator is a mock implementation of tajreba.StreamingTranslator.
type StreamingTranslator struct {
	Translator
	TranslateStreamFn func(ctx context.Context, req tajreba.TranslateRequest, fn tajreba.TokenFunc) (string, error)
}

func (t *StreamingTranslator) TranslateStream(ctx context.Context, req tajreba.TranslateRequest, fn tajreba.TokenFunc) (string, error) {
	return t.TranslateStreamFn(ctx, req, fn)
}

// ModelLister is a mock implementation of tajreba.ModelLister.
type ModelLister struct {
	ModelsFn func(ctx context.Context) ([]tajreba.Model, error)
}

func (m *ModelLister) Models(ctx context.Context) ([]tajreba.Model, error) {
	return m.ModelsFn(ctx)
}
