package handler

import (
	"net/http"
	"slices"

	"povlens/viewer/helper"
	"povlens/viewer/internal/browser"
	"povlens/viewer/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func ViewHandler(c *gin.Context) {
	b, ok := lookupBrowser(c)
	if !ok {
		return
	}
	ensureCatalog(c, b)
	if c.Query("wait") == "true" {
		b.Wait()
	}
	c.JSON(http.StatusOK, b.View())
}

func SetColumnsHandler(c *gin.Context) {
	var req struct {
		Columns []string `json:"columns" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	b, ok := lookupBrowser(c)
	if !ok {
		return
	}
	if !ensureCatalog(c, b) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Column catalog unavailable"})
		return
	}

	b.SetSelectedColumns(req.Columns)
	c.JSON(http.StatusOK, b.View())
}

func SetFilterHandler(c *gin.Context) {
	var req struct {
		Value model.FilterValue `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter value"})
		return
	}
	applyFilter(c, req.Value)
}

func DeleteFilterHandler(c *gin.Context) {
	applyFilter(c, model.NoFilter)
}

func applyFilter(c *gin.Context, value model.FilterValue) {
	field := c.Param("field")
	if !helper.IsValidIdentifier(field) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter field"})
		return
	}

	b, ok := lookupBrowser(c)
	if !ok {
		return
	}
	if !ensureCatalog(c, b) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Column catalog unavailable"})
		return
	}
	catalog, _ := b.Catalog()
	if !slices.Contains(model.ColumnNames(catalog), field) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown column: " + field})
		return
	}

	b.SetFilter(field, value)
	c.JSON(http.StatusOK, b.View())
}

func SetPageHandler(c *gin.Context) {
	var req struct {
		Page int `json:"page" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}

	b, ok := lookupBrowser(c)
	if !ok {
		return
	}
	b.SetPage(req.Page)
	c.JSON(http.StatusOK, b.View())
}

func SetLimitHandler(c *gin.Context) {
	var req struct {
		Limit int `json:"limit" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	b, ok := lookupBrowser(c)
	if !ok {
		return
	}
	b.SetLimit(req.Limit)
	c.JSON(http.StatusOK, b.View())
}

// RefreshHandler retries the current query. A response overtaken by a
// newer query is not an error.
func RefreshHandler(c *gin.Context) {
	b, ok := lookupBrowser(c)
	if !ok {
		return
	}

	if err := b.Refresh(c.Request.Context()); err != nil && !errors.Is(err, browser.ErrStale) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b.View())
}

// ExportHandler redirects to the CSV download; the file itself is served by
// the data API.
func ExportHandler(c *gin.Context) {
	b, ok := lookupBrowser(c)
	if !ok {
		return
	}
	c.Redirect(http.StatusFound, b.ExportURL())
}
