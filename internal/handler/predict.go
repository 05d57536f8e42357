package handler

import (
	"net/http"

	"povlens/viewer/internal/model"

	"github.com/gin-gonic/gin"
)

func QuestionnaireHandler(c *gin.Context) {
	api := currentAPI()
	if api == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No data API configured"})
		return
	}

	q, err := api.Questionnaire(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, q)
}

func PredictHandler(c *gin.Context) {
	var req model.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	api := currentAPI()
	if api == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No data API configured"})
		return
	}

	resp, err := api.Predict(c.Request.Context(), req)
	if err != nil {
		logger.Warnw("prediction failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func CoverageHandler(c *gin.Context) {
	api := currentAPI()
	if api == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No data API configured"})
		return
	}

	metrics, err := api.Coverage(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if metrics == nil {
		metrics = []model.CoverageMetrics{}
	}
	c.JSON(http.StatusOK, gin.H{"coverage": metrics})
}

func EfficiencyHandler(c *gin.Context) {
	api := currentAPI()
	if api == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No data API configured"})
		return
	}

	metrics, err := api.Efficiency(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if metrics == nil {
		metrics = []model.EfficiencyMetrics{}
	}
	c.JSON(http.StatusOK, gin.H{"efficiency": metrics})
}
