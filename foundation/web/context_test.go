package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	type request struct {
		Username *string
		Password *string
		FullName *string
	}

	username := "admin"
	password := "secret"

	t.Run("all required fields set", func(t *testing.T) {
		err := ValidateStruct(&request{Username: &username, Password: &password}, "Username", "Password")
		require.NoError(t, err)
	})

	t.Run("reports every missing field", func(t *testing.T) {
		err := ValidateStruct(&request{Username: &username}, "Username", "Password", "FullName")
		require.Error(t, err)

		var webErr *Error
		require.ErrorAs(t, err, &webErr)
		assert.Equal(t, http.StatusBadRequest, webErr.Status)
		assert.Contains(t, webErr.Fields, "Password")
		assert.Contains(t, webErr.Fields, "FullName")
		assert.NotContains(t, webErr.Fields, "Username")
	})

	t.Run("unknown field names are skipped", func(t *testing.T) {
		err := ValidateStruct(&request{Username: &username}, "Username", "NoSuchField")
		require.NoError(t, err)
	})

	t.Run("non-struct is rejected", func(t *testing.T) {
		err := ValidateStruct("not a struct")
		require.Error(t, err)
	})
}

func TestRequestError(t *testing.T) {
	base := assert.AnError

	err := NewRequestError(base, http.StatusConflict)

	var webErr *Error
	require.ErrorAs(t, err, &webErr)
	assert.Equal(t, http.StatusConflict, webErr.Status)
	assert.Equal(t, base, webErr.Err)
	assert.True(t, IsRequestError(err))
	assert.False(t, IsRequestError(base))
}
