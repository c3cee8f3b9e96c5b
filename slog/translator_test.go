package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoubaydy/tajreba"
	"github.com/ayoubaydy/tajreba/mock"
	tajrebaslog "github.com/ayoubaydy/tajreba/slog"
)

func TestLoggingTranslator_Translate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Translator{
		TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
			return "النص المترجم", nil
		},
	}

	translator := tajrebaslog.NewLoggingTranslator(inner, logger)
	out, err := translator.Translate(context.Background(), tajreba.TranslateRequest{
		Prompt: "Translate this.",
		Model:  "gemma3:12b",
	})

	require.NoError(t, err)
	assert.Equal(t, "النص المترجم", out)
	output := buf.String()
	assert.Contains(t, output, "translate")
	assert.Contains(t, output, "model=gemma3:12b")
	assert.Contains(t, output, "duration=")
}

func TestLoggingTranslator_TranslateStream(t *testing.T) {
	t.Parallel()

	t.Run("delegates to streaming translator", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.StreamingTranslator{
			TranslateStreamFn: func(ctx context.Context, req tajreba.TranslateRequest, fn tajreba.TokenFunc) (string, error) {
				require.NoError(t, fn("token "))
				require.NoError(t, fn("stream"))
				return "token stream", nil
			},
		}

		translator := tajrebaslog.NewLoggingTranslator(inner, logger)

		var tokens []string
		out, err := translator.TranslateStream(context.Background(), tajreba.TranslateRequest{Model: "m"},
			func(token string) error {
				tokens = append(tokens, token)
				return nil
			})

		require.NoError(t, err)
		assert.Equal(t, "token stream", out)
		assert.Equal(t, []string{"token ", "stream"}, tokens)
		assert.Contains(t, buf.String(), "translate stream")
	})

	t.Run("falls back to blocking translate", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Translator{
			TranslateFn: func(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
				return "whole output", nil
			},
		}

		translator := tajrebaslog.NewLoggingTranslator(inner, slog.New(slog.DiscardHandler))

		var got string
		out, err := translator.TranslateStream(context.Background(), tajreba.TranslateRequest{Model: "m"},
			func(token string) error {
				got = token
				return nil
			})

		require.NoError(t, err)
		assert.Equal(t, "whole output", out)
		assert.Equal(t, "whole output", got)
	})
}
