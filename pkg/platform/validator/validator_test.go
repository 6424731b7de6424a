package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "orgdesk/pkg/domain-errors"
)

type sample struct {
	Mode     string `json:"mode" validate:"required,oneof=create edit"`
	Code     string `json:"code" validate:"omitempty,numeric,max=8"`
	Username string `json:"username" validate:"omitempty,username"`
}

func TestStruct(t *testing.T) {
	t.Run("valid struct passes", func(t *testing.T) {
		assert.NoError(t, Struct(sample{Mode: "create", Code: "123456", Username: "asha.rao"}))
	})

	t.Run("missing field named by json tag", func(t *testing.T) {
		err := Struct(sample{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "mode is required", dErrors.MessageOf(err))
	})

	t.Run("oneof lists allowed values", func(t *testing.T) {
		err := Struct(sample{Mode: "delete"})
		assert.Equal(t, "mode must be one of: create edit", dErrors.MessageOf(err))
	})

	t.Run("custom username tag", func(t *testing.T) {
		err := Struct(sample{Mode: "edit", Username: "asha rao"})
		require.Error(t, err)
		assert.Contains(t, dErrors.MessageOf(err), "username may contain only")
	})

	t.Run("non-numeric code", func(t *testing.T) {
		err := Struct(sample{Mode: "edit", Code: "12ab"})
		assert.Equal(t, "code must contain only digits", dErrors.MessageOf(err))
	})
}
