package tajreba_test

import (
	"errors"
	"testing"

	"github.com/ayoubaydy/tajreba"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := tajreba.Errorf(tajreba.ENOTFOUND, "job %q not found", "test")

	assert.Equal(t, tajreba.ENOTFOUND, tajreba.ErrorCode(err))
	assert.Equal(t, "job \"test\" not found", tajreba.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tajreba.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, tajreba.EINTERNAL, tajreba.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tajreba.ErrorMessage(nil))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", tajreba.ErrorMessage(errors.New("boom")))
}
