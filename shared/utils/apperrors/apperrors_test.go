package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    *Error
		status int
		title  string
	}{
		{NewNotFound("item not found"), http.StatusNotFound, "Not found"},
		{NewBadRequest("no active scan for the property"), http.StatusBadRequest, "Bad request"},
		{NewUnauthorized("item isn't assigned to the employee"), http.StatusForbidden, "Unauthorized"},
		{NewConflict("property already has an active scan"), http.StatusConflict, "Conflict"},
		{NewNoRowsAffected("no rows affected"), http.StatusInternalServerError, "No rows affected"},
	}

	for _, tc := range cases {
		recorder := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(recorder)

		Respond(ctx, tc.err)

		assert.Equal(t, tc.status, recorder.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, tc.title, body["error"])
		assert.Equal(t, tc.err.Message, body["message"])
	}
}

func TestRespondHidesUntypedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	Respond(ctx, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "connection refused")
}

func TestIsKindSeesThroughWrapping(t *testing.T) {
	inner := NewConflict("duplicate invitation")
	wrapped := fmt.Errorf("creating invitation: %w", inner)

	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("record not found")
	err := Wrap(KindNotFound, "suggestion not found", cause)

	assert.Equal(t, "suggestion not found", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, IsKind(err, KindNotFound))
}
