package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithRole(t *testing.T, role string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	rec := runWithRole(t, "admin", "admin")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runWithRole(t, "manager", "admin", "manager")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleDenies(t *testing.T) {
	rec := runWithRole(t, "executive", "admin", "manager")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleMissingRole(t *testing.T) {
	rec := runWithRole(t, "", "admin")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
