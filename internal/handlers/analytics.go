package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shemigam1/dream-devs-assesment/internal/analytics"
	"github.com/shemigam1/dream-devs-assesment/internal/models"
)

// RegisterAnalyticsRoutes registers the five aggregation endpoints.
//
// GET /top-merchant             {merchant_id, total_volume} or null
// GET /monthly-active-merchants {"YYYY-MM": count, ...} ascending
// GET /product-adoption         {"PRODUCT": count, ...} count descending
// GET /kyc-funnel               fixed three-stage funnel counts
// GET /failure-rates            [{product, failure_rate}, ...] rate descending
//
// Each is a full recomputation over the stored record set; an empty
// store yields null/empty/zero results, never an error.
func RegisterAnalyticsRoutes(r gin.IRoutes, svc *analytics.Service) {
	r.GET("/top-merchant", func(c *gin.Context) {
		result, err := svc.TopMerchant(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		// nil renders as JSON null: no SUCCESS records yet.
		c.JSON(http.StatusOK, result)
	})

	r.GET("/monthly-active-merchants", func(c *gin.Context) {
		result, err := svc.MonthlyActiveMerchants(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	r.GET("/product-adoption", func(c *gin.Context) {
		result, err := svc.ProductAdoption(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	r.GET("/kyc-funnel", func(c *gin.Context) {
		result, err := svc.KycFunnel(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	r.GET("/failure-rates", func(c *gin.Context) {
		result, err := svc.FailureRates(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		if result == nil {
			result = []models.ProductFailureRate{}
		}
		c.JSON(http.StatusOK, result)
	})
}
