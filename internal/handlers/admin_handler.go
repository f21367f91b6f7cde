package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tungtase04539/sangtaophaisinh/internal/middleware"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/services"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	*BaseHandler
	profileService services.ProfileService
	configService  services.ConfigService
	reviewService  services.ReviewService
	statsService   services.StatsService
	reportService  services.ReportService
}

func NewAdminHandler(
	base *BaseHandler,
	profileService services.ProfileService,
	configService services.ConfigService,
	reviewService services.ReviewService,
	statsService services.StatsService,
	reportService services.ReportService,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    base,
		profileService: profileService,
		configService:  configService,
		reviewService:  reviewService,
		statsService:   statsService,
		reportService:  reportService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(h.requireAuth, middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/role", h.UpdateUserRole)

		admin.PUT("/config/pricing", h.UpdatePricing)
		admin.GET("/config/ranks", h.ListRankLimits)
		admin.PUT("/config/ranks/:rank", h.UpdateRankLimit)

		admin.POST("/jobs/:id/status", h.SetJobStatus)
		admin.GET("/stats", h.GetStats)
		admin.GET("/reports/payouts.xlsx", h.ExportPayouts)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.UserListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.profileService.ListUsers(c.Request.Context(), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateRole(c.Request.Context(), adminID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdatePricing godoc
// @Summary Replace the pricing config
// @Description Applies to jobs created afterwards. Existing jobs keep their frozen pricing.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePricingRequest true "Rates"
// @Success 200 {object} models.PricingConfig
// @Router /api/v1/admin/config/pricing [put]
func (h *AdminHandler) UpdatePricing(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdatePricingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	cfg, err := h.configService.UpdatePricing(c.Request.Context(), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *AdminHandler) ListRankLimits(c *gin.Context) {
	limits, err := h.configService.ListRankLimits(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranks": limits})
}

func (h *AdminHandler) UpdateRankLimit(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateRankLimitRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	limit, err := h.configService.UpdateRankLimit(c.Request.Context(), adminID, models.UserRank(c.Param("rank")), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, limit)
}

// SetJobStatus godoc
// @Summary Cancel or dispute a job
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param request body dto.AdminStatusRequest true "Target status"
// @Success 200 {object} models.Job
// @Failure 409 {object} apperrors.ErrorResponse "Transition not allowed"
// @Router /api/v1/admin/jobs/{id}/status [post]
func (h *AdminHandler) SetJobStatus(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.AdminStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.reviewService.SetJobStatus(c.Request.Context(), adminID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.AdminStats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportPayouts godoc
// @Summary Download payouts as XLSX
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param date_from query string false "RFC3339, defaults to 30 days ago"
// @Param date_to query string false "RFC3339, defaults to now"
// @Success 200 {file} file
// @Router /api/v1/admin/reports/payouts.xlsx [get]
func (h *AdminHandler) ExportPayouts(c *gin.Context) {
	from, to, err := ParseQueryDateRange(c, 30)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	data, err := h.reportService.PayoutsXLSX(c.Request.Context(), from, to)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("payouts_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
