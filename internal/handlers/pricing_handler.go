package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tungtase04539/sangtaophaisinh/internal/services"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
)

type PricingHandler struct {
	*BaseHandler
	configService services.ConfigService
}

func NewPricingHandler(base *BaseHandler, configService services.ConfigService) *PricingHandler {
	return &PricingHandler{
		BaseHandler:   base,
		configService: configService,
	}
}

func (h *PricingHandler) RegisterRoutes(r *gin.RouterGroup) {
	pricing := r.Group("/pricing")
	pricing.Use(h.requireAuth)
	{
		pricing.GET("/config", h.GetConfig)
		pricing.POST("/quote", h.Quote)
	}
}

func (h *PricingHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configService.GetPricing(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Quote godoc
// @Summary Preview the price of a job
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.QuoteRequest true "Job size"
// @Success 200 {object} models.PricingData
// @Router /api/v1/pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	quote, err := h.configService.Quote(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
