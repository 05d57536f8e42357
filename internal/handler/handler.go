package handler

import (
	"net/http"
	"sync"
	"time"

	"povlens/viewer/internal/browser"
	"povlens/viewer/internal/model"
	"povlens/viewer/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	mu             sync.RWMutex
	activeAPI      service.APIClient
	browsers       = map[string]*browser.Browser{}
	browserOptions []browser.Option

	logger         = zap.NewNop().Sugar()
	RequestTimeout = 15 * time.Second
)

// newAPIClient builds the client used by /connect. Tests replace it.
var newAPIClient = func(baseURL string) service.APIClient {
	return service.NewHTTPClient(baseURL, RequestTimeout)
}

// Setup points the handlers at api and creates one fresh browser per
// dataset. Previous browsers and their state are dropped.
func Setup(api service.APIClient, l *zap.SugaredLogger, opts ...browser.Option) {
	mu.Lock()
	defer mu.Unlock()

	if l != nil {
		logger = l
	}
	activeAPI = api
	browserOptions = opts
	browsers = make(map[string]*browser.Browser)
	for _, ds := range model.Datasets() {
		bopts := append([]browser.Option{browser.WithLogger(logger)}, opts...)
		browsers[ds.ID] = browser.New(ds, api, bopts...)
	}
}

func currentAPI() service.APIClient {
	mu.RLock()
	defer mu.RUnlock()
	return activeAPI
}

func lookupBrowser(c *gin.Context) (*browser.Browser, bool) {
	mu.RLock()
	b, ok := browsers[c.Param("dataset")]
	mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown dataset"})
		return nil, false
	}
	return b, true
}

// ensureCatalog loads the column catalog on first use. A failure is kept on
// the browser and reported through its view.
func ensureCatalog(c *gin.Context, b *browser.Browser) bool {
	if _, ok := b.Catalog(); ok {
		return true
	}
	if err := b.LoadColumns(c.Request.Context()); err != nil {
		return false
	}
	return true
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func ListDatasetsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"datasets": model.Datasets()})
}

func ListColumnsHandler(c *gin.Context) {
	b, ok := lookupBrowser(c)
	if !ok {
		return
	}

	if c.Query("reload") == "true" {
		if err := b.LoadColumns(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch columns: " + err.Error()})
			return
		}
	} else if !ensureCatalog(c, b) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch columns: " + b.View().Error})
		return
	}

	columns, _ := b.Catalog()
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}
