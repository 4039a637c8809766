package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is a liveness probe; it does not touch the store.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
