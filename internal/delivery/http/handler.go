package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/haircare/backend/internal/domain"
	"github.com/haircare/backend/internal/platform/logger"
	"github.com/haircare/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendations *usecase.RecommendationService
	products        *usecase.ProductService
	log             *logger.Logger
}

// NewHandler creates a new HTTP handler. Nil services make their endpoints
// answer 503.
func NewHandler(
	recommendations *usecase.RecommendationService,
	products *usecase.ProductService,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		recommendations: recommendations,
		products:        products,
		log:             log.With("component", "http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "haircare-backend",
		"version": "1.0.0",
	})
}

// GetRecommendations handles POST /api/v1/recommendations
func (h *Handler) GetRecommendations(c *gin.Context) {
	if h.recommendations == nil {
		h.notConfigured(c)
		return
	}

	var request domain.RecommendationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	response, err := h.recommendations.Recommend(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetSimilar handles POST /api/v1/recommendations/similar
func (h *Handler) GetSimilar(c *gin.Context) {
	if h.recommendations == nil {
		h.notConfigured(c)
		return
	}

	var request domain.SimilarRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	response, err := h.recommendations.SimilarTo(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	if h.products == nil {
		h.notConfigured(c)
		return
	}

	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductSimilar handles GET /api/v1/products/:id/similar
func (h *Handler) GetProductSimilar(c *gin.Context) {
	if h.products == nil {
		h.notConfigured(c)
		return
	}

	id, ok := productID(c)
	if !ok {
		return
	}

	response, err := h.products.SimilarForProduct(
		c.Request.Context(),
		id,
		c.Query("hair_porosity"),
		c.Query("focus_area"),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto HTTP responses
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPorosity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hair porosity"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoRecommendations):
		c.JSON(http.StatusNotFound, gin.H{"error": "No recommendations found for the given criteria"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	default:
		h.log.Error("request failed",
			"path", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *Handler) notConfigured(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recommendation service not configured"})
}
