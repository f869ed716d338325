package testutils

import (
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// NewTestContext returns a gin context for a bare request to target and the
// recorder capturing whatever the handler writes.
func NewTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}
