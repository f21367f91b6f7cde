package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tungtase04539/sangtaophaisinh/internal/services"
	"github.com/tungtase04539/sangtaophaisinh/internal/validator"
)

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	JobHandler          *JobHandler
	ManagerHandler      *ManagerHandler
	PricingHandler      *PricingHandler
	ProfileHandler      *ProfileHandler
	NotificationHandler *NotificationHandler
	AdminHandler        *AdminHandler
}

func NewAppHandlers(v *validator.Validator, requireAuth gin.HandlerFunc, s *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v, requireAuth)
	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, s.AuthService),
		JobHandler:          NewJobHandler(base, s.JobService),
		ManagerHandler:      NewManagerHandler(base, s.JobService, s.ReviewService, s.ProfileService, s.StatsService),
		PricingHandler:      NewPricingHandler(base, s.ConfigService),
		ProfileHandler:      NewProfileHandler(base, s.ProfileService),
		NotificationHandler: NewNotificationHandler(base, s.NotificationService),
		AdminHandler:        NewAdminHandler(base, s.ProfileService, s.ConfigService, s.ReviewService, s.StatsService, s.ReportService),
	}
}

// RegisterRoutes mounts every handler group on the API root.
func (h *AppHandlers) RegisterRoutes(api *gin.RouterGroup) {
	h.AuthHandler.RegisterRoutes(api)
	h.PricingHandler.RegisterRoutes(api)
	h.JobHandler.RegisterRoutes(api)
	h.ManagerHandler.RegisterRoutes(api)
	h.ProfileHandler.RegisterRoutes(api)
	h.NotificationHandler.RegisterRoutes(api)
	h.AdminHandler.RegisterRoutes(api)
}
