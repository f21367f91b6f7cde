// @title           Localization Marketplace API
// @version         1.0
// @description     Job marketplace for AI video localization: managers publish priced jobs, verified collaborators claim and deliver them, reviewers approve payouts.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

package main

import (
	_ "github.com/tungtase04539/sangtaophaisinh/docs"
	"github.com/tungtase04539/sangtaophaisinh/internal/app"
)

func main() {
	app.Run()
}
