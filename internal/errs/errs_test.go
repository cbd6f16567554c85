package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("create recipe: %w", Invalid("tags", "duplicate tag %d", 3))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	ve, ok := AsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, "tags", ve.Field)
	assert.Equal(t, "duplicate tag 3", ve.Message)
	assert.Equal(t, "tags: duplicate tag 3", ve.Error())
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := &ValidationError{Message: "bad input"}
	assert.Equal(t, "bad input", err.Error())
}
