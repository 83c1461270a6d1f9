package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/httpapi"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/profile"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/testutil"
)

const (
	harnessAdminPassword = "senha-super-secreta"
	harnessSessionSecret = "harness-session-secret"

	routeSiteRoot        = "/"
	routeLogin           = "/admin/login"
	routeLogout          = "/admin/logout"
	routeDashboard       = "/admin"
	routePublicContacts  = "/api/contacts"
	routeAdminProfile    = "/api/admin/profile"
	routeAdminAreas      = "/api/admin/areas"
	routeAdminContacts   = "/api/admin/contacts"
	headerNameCookie     = "Cookie"
	headerNameSetCookie  = "Set-Cookie"
	headerNameLocation   = "Location"
	formFieldPassword    = "password"
	contentTypeForm      = "application/x-www-form-urlencoded"
	contentTypeJSONValue = "application/json"
)

type apiHarness struct {
	router         *gin.Engine
	database       *gorm.DB
	events         *httpapi.ContactEventBroadcaster
	profileService *profile.Service
}

func buildAPIHarness(testingT *testing.T) apiHarness {
	testingT.Helper()

	gin.SetMode(gin.TestMode)
	logger, loggerErr := zap.NewDevelopment()
	require.NoError(testingT, loggerErr)

	database := testutil.NewSQLiteTestDatabase(testingT).OpenDatabase(testingT)

	contactBroadcaster := httpapi.NewContactEventBroadcaster()
	profileService := profile.NewService(database, logger)
	authManager := httpapi.NewAuthManager(logger, harnessAdminPassword, harnessSessionSecret)

	publicHandlers := httpapi.NewPublicHandlers(database, logger, contactBroadcaster)
	adminHandlers := httpapi.NewAdminHandlers(database, logger, profileService, contactBroadcaster)
	sitePageHandlers := httpapi.NewSitePageHandlers(logger, profileService)
	loginPageHandlers := httpapi.NewLoginPageHandlers(logger)
	dashboardPageHandlers := httpapi.NewDashboardPageHandlers(logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger(logger))

	router.GET(routeSiteRoot, sitePageHandlers.RenderSitePage)
	router.GET(routeLogin, loginPageHandlers.RenderLoginPage)
	router.POST(routeLogin, authManager.HandleLogin)
	router.POST(routeLogout, authManager.HandleLogout)
	router.GET(routeDashboard, authManager.RequireAuthenticatedWeb(), dashboardPageHandlers.RenderDashboard)

	router.POST(routePublicContacts, publicHandlers.CreateContact)

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(authManager.RequireAuthenticatedJSON())
	adminGroup.GET("/profile", adminHandlers.GetProfile)
	adminGroup.PATCH("/profile", adminHandlers.UpdateProfile)
	adminGroup.GET("/areas", adminHandlers.ListAreas)
	adminGroup.POST("/areas/:id/toggle", adminHandlers.ToggleArea)
	adminGroup.GET("/contacts", adminHandlers.ListContacts)
	adminGroup.GET("/contacts/events", adminHandlers.StreamContactUpdates)
	adminGroup.PATCH("/contacts/:id/read", adminHandlers.MarkContactRead)
	adminGroup.DELETE("/contacts/:id", adminHandlers.DeleteContact)

	testingT.Cleanup(contactBroadcaster.Close)

	return apiHarness{
		router:         router,
		database:       database,
		events:         contactBroadcaster,
		profileService: profileService,
	}
}

func performJSONRequest(testingT *testing.T, router *gin.Engine, method string, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	testingT.Helper()

	var requestBody io.Reader
	if body != nil {
		encoded, encodeErr := json.Marshal(body)
		require.NoError(testingT, encodeErr)
		requestBody = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, requestBody)
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	if body != nil {
		request.Header.Set("Content-Type", contentTypeJSONValue)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func performFormRequest(testingT *testing.T, router *gin.Engine, method string, path string, formValues url.Values, headers map[string]string) *httptest.ResponseRecorder {
	testingT.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(formValues.Encode()))
	request.Header.Set("Content-Type", contentTypeForm)
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

// loginSessionCookie authenticates with the shared password and returns the
// session cookie header value for subsequent requests.
func loginSessionCookie(testingT *testing.T, router *gin.Engine) string {
	testingT.Helper()

	loginResponse := performFormRequest(testingT, router, http.MethodPost, routeLogin, url.Values{
		formFieldPassword: []string{harnessAdminPassword},
	}, nil)
	require.Equal(testingT, http.StatusFound, loginResponse.Code)
	require.Equal(testingT, routeDashboard, loginResponse.Header().Get(headerNameLocation))

	setCookie := loginResponse.Header().Get(headerNameSetCookie)
	require.NotEmpty(testingT, setCookie)
	return strings.SplitN(setCookie, ";", 2)[0]
}

func adminHeaders(sessionCookie string) map[string]string {
	return map[string]string{headerNameCookie: sessionCookie}
}

func decodeJSONBody(testingT *testing.T, recorder *httptest.ResponseRecorder, target any) {
	testingT.Helper()
	require.NoError(testingT, json.Unmarshal(recorder.Body.Bytes(), target))
}

func validContactPayload() map[string]any {
	return map[string]any{
		"name":      "Maria da Silva",
		"phone":     "(11) 98765-4321",
		"sex":       "feminino",
		"age":       34,
		"situation": "Fui demitida sem receber as verbas rescisórias devidas.",
	}
}
