// Package api is a thin demonstration HTTP surface around internal/engine.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gcbaptista/corpussearch/config"
	"github.com/gcbaptista/corpussearch/index"
	"github.com/gcbaptista/corpussearch/internal/engine"
	"github.com/gcbaptista/corpussearch/model"
)

// API holds the dependencies handlers need: the engine host and the
// property name documents are ingested under in this demo binary.
type API struct {
	host         *engine.Host
	propertyName string
}

// NewAPI creates a new API handler structure.
func NewAPI(host *engine.Host, propertyName string) *API {
	return &API{host: host, propertyName: propertyName}
}

// SetupRoutes defines the demo binary's HTTP surface.
func SetupRoutes(router *gin.Engine, host *engine.Host, propertyName string) {
	h := NewAPI(host, propertyName)

	router.GET("/health", h.HealthCheckHandler)
	router.POST("/documents", h.AddDocumentsHandler)
	router.POST("/_search", h.SearchHandler)
}

// HealthCheckHandler reports whether an index has been published yet.
func (a *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"ready":  a.host.Ready(),
	})
}

// AddDocumentsRequest is the request body accepted by AddDocumentsHandler.
type AddDocumentsRequest struct {
	Settings  *config.EngineSettings `json:"settings,omitempty"`
	Documents []model.Document       `json:"documents" binding:"required"`
}

// AddDocumentsHandler rebuilds the index from scratch with the posted
// documents. There is no incremental update in this engine: every call
// to this endpoint replaces whatever was published before.
func (a *API) AddDocumentsHandler(c *gin.Context) {
	var req AddDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Documents) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no documents provided"})
		return
	}

	settings := config.EngineSettings{}
	if req.Settings != nil {
		settings = *req.Settings
	}

	requestID := uuid.NewString()
	var added int
	err := a.host.Rebuild(settings, func(idx *index.Index) error {
		var batchErr error
		added, batchErr = engine.IngestBatch(idx, a.propertyName, req.Documents, nil)
		return batchErr
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "failed to build index: " + err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "index rebuilt",
		"added":      added,
		"request_id": requestID,
	})
}

// SearchRequest is the request body accepted by SearchHandler.
type SearchRequest struct {
	Query   string `json:"query"`
	UseHits bool   `json:"use_hits"`
}

// SearchResult is the wire shape of a single index.Match.
type SearchResult struct {
	DocID        uint32   `json:"doc_id"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms"`
}

// SearchHandler runs a query against the currently published index.
func (a *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	matches, err := a.host.Search(req.Query, nil, req.UseHits)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		terms := make([]string, 0, len(m.MatchedTerms))
		for t := range m.MatchedTerms {
			terms = append(terms, t)
		}
		results = append(results, SearchResult{DocID: m.DocID, Score: m.FinalScore, MatchedTerms: terms})
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   req.Query,
		"results": results,
		"count":   len(results),
	})
}
