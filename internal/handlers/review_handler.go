package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tungtase04539/sangtaophaisinh/internal/middleware"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/services"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
)

// ManagerHandler serves job creation, reviews and collaborator vetting.
type ManagerHandler struct {
	*BaseHandler
	jobService     services.JobService
	reviewService  services.ReviewService
	profileService services.ProfileService
	statsService   services.StatsService
}

func NewManagerHandler(
	base *BaseHandler,
	jobService services.JobService,
	reviewService services.ReviewService,
	profileService services.ProfileService,
	statsService services.StatsService,
) *ManagerHandler {
	return &ManagerHandler{
		BaseHandler:    base,
		jobService:     jobService,
		reviewService:  reviewService,
		profileService: profileService,
		statsService:   statsService,
	}
}

func (h *ManagerHandler) RegisterRoutes(r *gin.RouterGroup) {
	staff := middleware.RequireRoles(models.UserRoleManager, models.UserRoleAdmin)

	manager := r.Group("/manager")
	manager.Use(h.requireAuth, staff)
	{
		manager.POST("/jobs", h.CreateJob)
		manager.GET("/jobs", h.ListJobs)
		manager.POST("/jobs/:id/review", h.ReviewSubmission)
		manager.POST("/jobs/:id/complete", h.CompleteJob)
		manager.GET("/reviews", h.ListPendingReviews)
		manager.GET("/ctvs", h.ListCTVs)
		manager.GET("/stats", h.GetStats)
	}

	ctvs := r.Group("/ctvs")
	ctvs.Use(h.requireAuth, staff)
	{
		ctvs.POST("/:id/verify", h.VerifyCTV)
	}
}

// CreateJob godoc
// @Summary Publish a job
// @Description Prices the job with the current config and freezes the breakdown on the job
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Job"
// @Success 201 {object} models.Job
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /api/v1/manager/jobs [post]
func (h *ManagerHandler) CreateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *ManagerHandler) ListJobs(c *gin.Context) {
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.jobService.ListJobs(c.Request.Context(), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReviewSubmission godoc
// @Summary Review the latest submission of a job
// @Description Approve, reject or request a revision. Approval requires every safety check and credits the payout.
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param request body dto.ReviewRequest true "Review"
// @Success 200 {object} dto.ReviewResult
// @Failure 409 {object} apperrors.ErrorResponse "Already reviewed"
// @Failure 422 {object} apperrors.ErrorResponse "Safety checks missing"
// @Router /api/v1/manager/jobs/{id}/review [post]
func (h *ManagerHandler) ReviewSubmission(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.reviewService.ReviewSubmission(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ManagerHandler) CompleteJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	job, err := h.reviewService.CompleteJob(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *ManagerHandler) ListPendingReviews(c *gin.Context) {
	var query dto.PageQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.reviewService.ListPendingReviews(c.Request.Context(), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCTVs godoc
// @Summary List collaborators
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, verified or all"
// @Success 200 {object} dto.ProfileListResponse
// @Router /api/v1/manager/ctvs [get]
func (h *ManagerHandler) ListCTVs(c *gin.Context) {
	var query dto.CTVListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.profileService.ListCTVs(c.Request.Context(), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyCTV godoc
// @Summary Verify a collaborator
// @Description Idempotent: verifying an already verified collaborator reports success
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collaborator ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /api/v1/ctvs/{id}/verify [post]
func (h *ManagerHandler) VerifyCTV(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.VerifyCTVRequest
	// The body is optional.
	if c.Request.ContentLength > 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.VerifyCTV(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ManagerHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.ManagerStats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
