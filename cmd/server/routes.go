package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/httpapi"
)

const (
	siteRouteRoot    = "/"
	adminRouteLogin  = "/admin/login"
	adminRouteLogout = "/admin/logout"
	adminRouteRoot   = "/admin"

	publicRouteContacts = "/api/contacts"

	apiRoutePrefix           = "/api/admin"
	apiRouteProfile          = "/profile"
	apiRouteAreas            = "/areas"
	apiRouteAreaToggle       = "/areas/:id/toggle"
	apiRouteContacts         = "/contacts"
	apiRouteContactEvents    = "/contacts/events"
	apiRouteContactRead      = "/contacts/:id/read"
	apiRouteContactByID      = "/contacts/:id"
	corsOriginWildcard       = "*"
	corsHeaderContentType    = "Content-Type"
	httpMethodGet            = "GET"
	httpMethodPost           = "POST"
	httpMethodPatch          = "PATCH"
	httpMethodDelete         = "DELETE"
	httpMethodOptions        = "OPTIONS"
	authenticatedOriginLocal = "http://localhost:8080"
)

var (
	corsAllowedMethods = []string{httpMethodGet, httpMethodPost, httpMethodPatch, httpMethodDelete, httpMethodOptions}
	corsAllowedHeaders = []string{corsHeaderContentType}
	corsExposedHeaders = []string{corsHeaderContentType}
)

func registerFrontendRoutes(
	router *gin.Engine,
	authManager *httpapi.AuthManager,
	sitePageHandlers *httpapi.SitePageHandlers,
	loginPageHandlers *httpapi.LoginPageHandlers,
	dashboardPageHandlers *httpapi.DashboardPageHandlers,
) {
	router.GET(siteRouteRoot, sitePageHandlers.RenderSitePage)

	router.GET(adminRouteLogin, loginPageHandlers.RenderLoginPage)
	router.POST(adminRouteLogin, authManager.HandleLogin)
	router.POST(adminRouteLogout, authManager.HandleLogout)
	router.GET(adminRouteRoot, authManager.RequireAuthenticatedWeb(), dashboardPageHandlers.RenderDashboard)

	router.NoRoute(func(context *gin.Context) {
		context.Redirect(http.StatusFound, siteRouteRoot)
	})
}

func registerBackendRoutes(
	router *gin.Engine,
	authManager *httpapi.AuthManager,
	publicHandlers *httpapi.PublicHandlers,
	adminHandlers *httpapi.AdminHandlers,
) {
	publicCORS := cors.New(cors.Config{
		AllowOrigins:     []string{corsOriginWildcard},
		AllowMethods:     corsAllowedMethods,
		AllowHeaders:     corsAllowedHeaders,
		ExposeHeaders:    corsExposedHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
	publicGroup := router.Group("/")
	publicGroup.Use(publicCORS)
	publicGroup.POST(publicRouteContacts, publicHandlers.CreateContact)

	apiGroup := router.Group(apiRoutePrefix)
	apiGroup.Use(cors.New(cors.Config{
		AllowOrigins:     []string{authenticatedOriginLocal},
		AllowMethods:     corsAllowedMethods,
		AllowHeaders:     corsAllowedHeaders,
		ExposeHeaders:    corsExposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	apiGroup.Use(authManager.RequireAuthenticatedJSON())
	apiGroup.GET(apiRouteProfile, adminHandlers.GetProfile)
	apiGroup.PATCH(apiRouteProfile, adminHandlers.UpdateProfile)
	apiGroup.GET(apiRouteAreas, adminHandlers.ListAreas)
	apiGroup.POST(apiRouteAreaToggle, adminHandlers.ToggleArea)
	apiGroup.GET(apiRouteContacts, adminHandlers.ListContacts)
	apiGroup.GET(apiRouteContactEvents, adminHandlers.StreamContactUpdates)
	apiGroup.PATCH(apiRouteContactRead, adminHandlers.MarkContactRead)
	apiGroup.DELETE(apiRouteContactByID, adminHandlers.DeleteContact)
}
