package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload as JSON with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes payload with 200 OK.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Accepted writes payload with 202 Accepted, for work that finishes
// asynchronously after the response.
func Accepted(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusAccepted, payload)
}
