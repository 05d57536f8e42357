package handler

import (
	"net/http"

	"povlens/viewer/internal/model"

	"github.com/gin-gonic/gin"
)

// ConnectHandler switches to another data API. All dataset browsers start
// over with empty state.
func ConnectHandler(c *gin.Context) {
	var req model.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	api := newAPIClient(req.APIURL)
	mu.RLock()
	opts := browserOptions
	mu.RUnlock()
	Setup(api, nil, opts...)

	logger.Infow("connected to data API", "url", req.APIURL)
	c.JSON(http.StatusOK, gin.H{"message": "Connected successfully"})
}
