package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	cloned := Clone(ErrAlreadyApplied, "Student already applied for this post")
	wrapped := fmt.Errorf("apply: %w", cloned)

	assert.True(t, Is(wrapped, ErrAlreadyApplied))
	assert.False(t, Is(wrapped, ErrMinTrainingPeriod))
	assert.False(t, Is(nil, ErrAlreadyApplied))
	assert.False(t, Is(fmt.Errorf("plain"), ErrAlreadyApplied))
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "internal server error: boom", err.Error())
}

func TestCloneKeepsOriginal(t *testing.T) {
	clone := Clone(ErrUpstream, "server said no")
	assert.Equal(t, "server said no", clone.Message)
	assert.Equal(t, "training backend request failed", ErrUpstream.Message)
	assert.Nil(t, Clone(nil, "x"))
}
