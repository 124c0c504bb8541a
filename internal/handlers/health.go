package handlers

import (
	"github.com/gin-gonic/gin"
)

// Health reports service liveness.
// GET /health
func Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok", "service": "rentauth"})
}
