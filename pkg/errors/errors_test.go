package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeInvalidStep, http.StatusBadRequest},
		{CodeStateValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeStoryNotFound, http.StatusNotFound},
		{CodeChapterNotFound, http.StatusNotFound},
		{CodeCharacterNotFound, http.StatusNotFound},
		{CodeCharacterInUse, http.StatusConflict},
		{CodePositionTaken, http.StatusConflict},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeUpstreamGeneration, http.StatusBadGateway},
		{CodeSchemaViolation, http.StatusBadGateway},
		{CodeLLMProviderError, http.StatusBadGateway},
		{CodeServiceUnavailable, http.StatusServiceUnavailable},
		{CodeDatabaseError, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "msg").HTTPStatus)
		})
	}
}

func TestAppError_ErrorString(t *testing.T) {
	e := New(CodeStateValidation, "story_id is required")
	assert.Equal(t, "[4002] story_id is required", e.Error())

	wrapped := Wrap(stderrors.New("conn refused"), CodeDatabaseError, "failed to load story")
	assert.Equal(t, "[5001] failed to load story: conn refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("duplicate key")
	e := Persistence(cause, "failed to persist chapter")
	assert.ErrorIs(t, e, cause)
}

func TestAppError_WithDetailAndError(t *testing.T) {
	cause := stderrors.New("bad json")
	e := SchemaViolation("outline violates the output contract").
		WithDetail("expected 3 chapters, got 2").
		WithError(cause)

	assert.Equal(t, CodeSchemaViolation, e.Code)
	assert.Equal(t, "expected 3 chapters, got 2", e.Detail)
	assert.Same(t, cause, e.Err)
	assert.Equal(t, http.StatusBadGateway, e.HTTPStatus)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(ErrStoryNotFound, CodeStoryNotFound))
	assert.False(t, IsCode(ErrStoryNotFound, CodeChapterNotFound))
	assert.False(t, IsCode(stderrors.New("plain"), CodeStoryNotFound))
	assert.False(t, IsCode(nil, CodeStoryNotFound))
}

func TestAsAppError(t *testing.T) {
	t.Run("passthrough", func(t *testing.T) {
		e := Validation("answers are required")
		assert.Same(t, e, AsAppError(e))
	})

	t.Run("plain error wrapped as unknown", func(t *testing.T) {
		appErr := AsAppError(stderrors.New("boom"))
		require.NotNil(t, appErr)
		assert.Equal(t, CodeUnknown, appErr.Code)
		assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	})
}

func TestHelperConstructors(t *testing.T) {
	assert.Equal(t, CodeStateValidation, Validation("m").Code)
	assert.Equal(t, CodeStateValidation, Validationf("got %d", 2).Code)
	assert.Equal(t, CodeUpstreamGeneration, UpstreamGeneration("m").Code)
	assert.Equal(t, CodeSchemaViolation, SchemaViolation("m").Code)
	assert.Equal(t, CodeDatabaseError, Persistence(stderrors.New("x"), "m").Code)

	assert.Contains(t, Validationf("answer count mismatch: got %d answers for %d questions", 3, 5).Message, "3 answers for 5 questions")
}
