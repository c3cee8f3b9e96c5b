package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayoubaydy/tajreba"
)

var _ tajreba.StreamingTranslator = (*LoggingTranslator)(nil)

// LoggingTranslator wraps a Translator with structured logging of each
// model call. When the wrapped translator supports streaming, so does the
// decorator.
type LoggingTranslator struct {
	next   tajreba.Translator
	logger *slog.Logger
}

// NewLoggingTranslator creates a new LoggingTranslator.
func NewLoggingTranslator(next tajreba.Translator, logger *slog.Logger) *LoggingTranslator {
	return &LoggingTranslator{next: next, logger: logger}
}

// Translate logs the model call and delegates to the wrapped translator.
func (t *LoggingTranslator) Translate(ctx context.Context, req tajreba.TranslateRequest) (out string, err error) {
	defer func(begin time.Time) {
		t.logger.Info("translate",
			"model", req.Model,
			"promptBytes", len(req.Prompt),
			"outputBytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Translate(ctx, req)
}

// TranslateStream delegates to the wrapped translator's streaming path when
// available and falls back to Translate otherwise. Tokens pass through
// unlogged; only the completed call is recorded.
func (t *LoggingTranslator) TranslateStream(ctx context.Context, req tajreba.TranslateRequest, fn tajreba.TokenFunc) (out string, err error) {
	defer func(begin time.Time) {
		t.logger.Info("translate stream",
			"model", req.Model,
			"promptBytes", len(req.Prompt),
			"outputBytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	if st, ok := t.next.(tajreba.StreamingTranslator); ok {
		return st.TranslateStream(ctx, req, fn)
	}
	out, err = t.next.Translate(ctx, req)
	if err == nil && fn != nil {
		if ferr := fn(out); ferr != nil {
			return "", ferr
		}
	}
	return out, err
}
