package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := ClientNotFound("f01234")
	wrapped := Wrap(inner, "building client table")

	assert.Equal(t, CodeClientNotFound, GetCode(wrapped))
	assert.True(t, HasCode(wrapped, CodeClientNotFound))
	assert.Contains(t, wrapped.Error(), "building client table")
	assert.Contains(t, wrapped.Error(), `client "f01234" not found`)
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("disk gone"), "reading file")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", UnknownMetric("c_nope"))
	assert.Equal(t, CodeUnknownMetric, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeLoadFailed, stderrors.New("missing column"))
	assert.Equal(t, CodeLoadFailed, GetCode(err))
	assert.Equal(t, "missing column: missing column", err.Error())
}
