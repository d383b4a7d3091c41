package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := FileNotFound("heart.csv")
	wrapped := Wrap(base, "load local default")

	assert.Equal(t, CodeFileNotFound, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Equal(t, "load local default: file heart.csv not found", wrapped.Error())
}

func TestWrapPlainError(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), "step %d", 2)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "step 2: boom", err.Error())
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", RenderFailed("barplot needs a Y column"))
	assert.Equal(t, CodeRenderFailed, GetCode(err))
	assert.True(t, HasCode(err, CodeRenderFailed))
	assert.False(t, HasCode(nil, CodeRenderFailed))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeParseFailed, fmt.Errorf("record on line 3: wrong number of fields"))
	assert.Equal(t, CodeParseFailed, GetCode(err))
	assert.True(t, IsAppError(err))

	recoded := WithCode(CodeInvalidInput, InvalidInput("bad"))
	assert.Equal(t, CodeInvalidInput, GetCode(recoded))
	assert.Equal(t, "bad", recoded.Error())
}

func TestFetchFailedMessage(t *testing.T) {
	err := FetchFailed("http://example.test/a.csv", fmt.Errorf("status 404"))
	assert.Equal(t, "fetch http://example.test/a.csv: status 404", err.Error())
}
