package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-address-dispatch/pkg/apperror"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFail_HidesStoreCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")

	Fail(c, helpers.NewNopLogger(), apperror.Store(errors.New(`duplicate key value violates "users_email_key"`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "internal server error", body.Error)
	assert.Equal(t, "req-1", body.RequestID)
	assert.NotContains(t, w.Body.String(), "users_email_key")
	assert.True(t, c.IsAborted())
}

func TestFail_KindsToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperror.Validation("bad input"), http.StatusBadRequest, "bad input"},
		{apperror.Auth("invalid credential"), http.StatusUnauthorized, "invalid credential"},
		{apperror.Forbidden("nope"), http.StatusForbidden, "nope"},
		{apperror.NotFound("address not found"), http.StatusNotFound, "address not found"},
		{apperror.Conflict("email already registered"), http.StatusConflict, "email already registered"},
		{apperror.Store(errTimeout{}), http.StatusGatewayTimeout, "upstream timeout"},
		{errors.New("untyped"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		Fail(c, nil, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.msg)
		assert.Equal(t, tc.msg, decode(t, w).Error)
	}
}

// errTimeout unwraps to context.DeadlineExceeded the way pgx errors do.
type errTimeout struct{}

func (errTimeout) Error() string { return "timeout: context deadline exceeded" }
func (errTimeout) Unwrap() error { return context.DeadlineExceeded }
