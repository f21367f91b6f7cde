package auth

import "github.com/tungtase04539/sangtaophaisinh/internal/models"

type Permission string

const (
	PermJobsClaim     Permission = "jobs:claim"
	PermJobsCreate    Permission = "jobs:create"
	PermJobsReview    Permission = "jobs:review"
	PermJobsEscalate  Permission = "jobs:escalate"
	PermCTVsVerify    Permission = "ctvs:verify"
	PermConfigWrite   Permission = "config:write"
	PermUsersManage   Permission = "users:manage"
	PermReportsExport Permission = "reports:export"
)

// Permissions lists what each role may do.
var Permissions = map[models.UserRole][]Permission{
	models.UserRoleAdmin: {
		PermJobsCreate,
		PermJobsReview,
		PermJobsEscalate,
		PermCTVsVerify,
		PermConfigWrite,
		PermUsersManage,
		PermReportsExport,
	},
	models.UserRoleManager: {
		PermJobsCreate,
		PermJobsReview,
		PermJobsEscalate,
		PermCTVsVerify,
	},
	models.UserRoleCTV: {
		PermJobsClaim,
	},
}

func HasPermission(role models.UserRole, permission Permission) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

func (c *Claims) Can(permission Permission) bool {
	return HasPermission(c.Role, permission)
}
