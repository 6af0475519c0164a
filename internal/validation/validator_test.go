package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" validate:"required,max=10"`
	Email string   `json:"email,omitempty" validate:"omitempty,email"`
	Kind  string   `json:"kind" validate:"required,oneof=project server"`
	Tags  []string `json:"tags" validate:"max=2"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(&sample{Name: "ok", Kind: "server"}))
	})

	t.Run("reports every failing field by json name", func(t *testing.T) {
		err := Struct(&sample{Name: "far too long a name", Email: "nope", Kind: "other", Tags: []string{"a", "b", "c"}})

		var verr *Error
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Fields, 4)
		assert.Equal(t, FieldError{Field: "name", Tag: "max", Message: "name must be at most 10 characters"}, verr.Fields[0])
		assert.Equal(t, "email must be a valid email address", verr.Fields[1].Message)
		assert.Equal(t, "kind must be one of: project server", verr.Fields[2].Message)
		assert.Equal(t, "tags must have at most 2 entries", verr.Fields[3].Message)
		assert.Contains(t, err.Error(), "; ")
	})

	t.Run("required", func(t *testing.T) {
		err := Struct(&sample{})

		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name is required", verr.Fields[0].Message)
	})
}
