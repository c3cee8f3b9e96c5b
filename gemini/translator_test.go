package gemini_test

import (
	"context"
	"testing"

	"github.com/ayoubaydy/tajreba"
	"github.com/ayoubaydy/tajreba/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_Translate_RequiresPrompt(t *testing.T) {
	t.Parallel()

	tr := gemini.NewTranslator(nil) // nil client ok for validation tests

	_, err := tr.Translate(context.Background(), tajreba.TranslateRequest{Model: "gemini-2.5-flash"})

	require.Error(t, err)
	assert.Equal(t, tajreba.EINVALID, tajreba.ErrorCode(err))
}
