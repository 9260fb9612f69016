package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHealth reports that the process is serving requests.
func getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func registerHealthRoutes(r *gin.Engine) {
	r.GET("/health", getHealth)
}
