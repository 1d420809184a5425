package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	OK bool `json:"ok"`
}

// Health
// @Summary Liveness check
// @Description Always reports ok; the document store is not consulted.
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, Response{OK: true})
}
