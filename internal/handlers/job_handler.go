package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tungtase04539/sangtaophaisinh/internal/middleware"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/services"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

// JobHandler serves the collaborator side of the marketplace.
type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	jobs.Use(h.requireAuth)
	{
		ctv := jobs.Group("")
		ctv.Use(middleware.RequireRoles(models.UserRoleCTV))
		{
			ctv.GET("/available", h.ListAvailable)
			ctv.GET("/my", h.ListMine)
			ctv.GET("/stats/my", h.GetMyStats)
			ctv.POST("/:id/lock", h.LockJob)
			ctv.POST("/:id/release", h.ReleaseJob)
			ctv.POST("/:id/submissions", h.SubmitWork)
		}

		jobs.GET("/:id", h.GetJob)
		jobs.GET("/:id/submissions", h.ListSubmissions)
	}
}

// ListAvailable godoc
// @Summary List jobs open for claiming
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param complexity query string false "easy, medium, hard or expert"
// @Param q query string false "Title search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.JobListResponse
// @Router /api/v1/jobs/available [get]
func (h *JobHandler) ListAvailable(c *gin.Context) {
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.jobService.ListAvailable(c.Request.Context(), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMine godoc
// @Summary List jobs held by the caller
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param status query string false "Job status"
// @Success 200 {object} dto.JobListResponse
// @Router /api/v1/jobs/my [get]
func (h *JobHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.jobService.ListMine(c.Request.Context(), userID, query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LockJob godoc
// @Summary Claim a job
// @Description Locks an available job for the caller. Failures keep the same body shape with success=false.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.LockJobResult
// @Failure 403 {object} dto.LockJobResult "Collaborator not verified"
// @Failure 409 {object} dto.LockJobResult "Already claimed or rank limit reached"
// @Router /api/v1/jobs/{id}/lock [post]
func (h *JobHandler) LockJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.jobService.ClaimJob(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeLockFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) writeLockFailure(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.HTTPCode >= http.StatusInternalServerError {
		h.HandleServiceError(c, err)
		return
	}

	result := dto.LockJobResult{
		Success: false,
		Message: appErr.Message,
		Error:   string(appErr.Code),
	}
	if details, ok := appErr.Details.(map[string]int64); ok {
		if v, ok := details["current_locked"]; ok {
			result.CurrentLocked = &v
		}
		if v, ok := details["max_allowed"]; ok {
			result.MaxAllowed = &v
		}
	}
	c.JSON(appErr.HTTPCode, result)
}

// ReleaseJob godoc
// @Summary Give a claimed job back
// @Description Returns the job to the pool and applies the release credit penalty
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.ReleaseJobResult
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /api/v1/jobs/{id}/release [post]
func (h *JobHandler) ReleaseJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.jobService.ReleaseJob(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitWork godoc
// @Summary Submit work for a held job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param request body dto.SubmitWorkRequest true "Deliverables"
// @Success 201 {object} models.Submission
// @Failure 422 {object} apperrors.ErrorResponse "Confirmations missing"
// @Router /api/v1/jobs/{id}/submissions [post]
func (h *JobHandler) SubmitWork(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.SubmitWorkRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	submission, err := h.jobService.SubmitWork(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

func (h *JobHandler) GetMyStats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.jobService.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) ListSubmissions(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}

	submissions, err := h.jobService.ListSubmissions(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}
