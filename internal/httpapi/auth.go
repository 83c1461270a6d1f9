package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	adminSessionName             = "advocacia_admin"
	sessionKeyAuthenticated      = "authenticated"
	loginFormFieldPassword       = "password"
	loginFailureQueryParameter   = "error"
	loginFailureQueryValue       = "1"
	authErrorUnauthorized        = "unauthorized"
	logEventLoadSession          = "load_session"
	logEventSaveSession          = "save_session"
	routeAdminLogin              = "/admin/login"
	routeAdminRoot               = "/admin"
	loginFailureRedirectLocation = routeAdminLogin + "?" + loginFailureQueryParameter + "=" + loginFailureQueryValue
)

// AuthManager guards the admin area behind a single shared password. A
// successful login sets a session-scoped flag; the flag is the only admission
// criterion for guarded routes.
type AuthManager struct {
	logger        *zap.Logger
	sessionStore  *sessions.CookieStore
	adminPassword string
}

// NewAuthManager constructs the manager with a cookie session store keyed by
// the given secret. The session cookie carries no expiry: it lasts for the
// browser session only.
func NewAuthManager(logger *zap.Logger, adminPassword string, sessionSecret string) *AuthManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &AuthManager{
		logger:        logger,
		sessionStore:  store,
		adminPassword: adminPassword,
	}
}

// HandleLogin compares the submitted password against the configured secret.
// A match sets the session flag and redirects to the admin root; a mismatch
// redirects back to the login page with the failure marker.
func (authManager *AuthManager) HandleLogin(context *gin.Context) {
	submittedPassword := context.PostForm(loginFormFieldPassword)
	if submittedPassword == "" || submittedPassword != authManager.adminPassword {
		context.Redirect(http.StatusFound, loginFailureRedirectLocation)
		return
	}

	sessionInstance, sessionErr := authManager.sessionStore.Get(context.Request, adminSessionName)
	if sessionErr != nil {
		authManager.logger.Warn(logEventLoadSession, zap.Error(sessionErr))
		// A corrupt cookie still yields a fresh session instance below.
	}
	sessionInstance.Values[sessionKeyAuthenticated] = true
	if saveErr := sessionInstance.Save(context.Request, context.Writer); saveErr != nil {
		authManager.logger.Warn(logEventSaveSession, zap.Error(saveErr))
		context.Redirect(http.StatusFound, loginFailureRedirectLocation)
		return
	}

	context.Redirect(http.StatusFound, routeAdminRoot)
}

// HandleLogout clears the session flag and returns to the login page.
func (authManager *AuthManager) HandleLogout(context *gin.Context) {
	sessionInstance, sessionErr := authManager.sessionStore.Get(context.Request, adminSessionName)
	if sessionErr != nil {
		authManager.logger.Warn(logEventLoadSession, zap.Error(sessionErr))
	}
	delete(sessionInstance.Values, sessionKeyAuthenticated)
	sessionInstance.Options.MaxAge = -1
	if saveErr := sessionInstance.Save(context.Request, context.Writer); saveErr != nil {
		authManager.logger.Warn(logEventSaveSession, zap.Error(saveErr))
	}
	context.Redirect(http.StatusFound, routeAdminLogin)
}

// IsAuthenticated reports whether the request carries the session flag.
func (authManager *AuthManager) IsAuthenticated(request *http.Request) bool {
	sessionInstance, sessionErr := authManager.sessionStore.Get(request, adminSessionName)
	if sessionErr != nil {
		authManager.logger.Warn(logEventLoadSession, zap.Error(sessionErr))
		return false
	}
	authenticated, ok := sessionInstance.Values[sessionKeyAuthenticated].(bool)
	return ok && authenticated
}

// RequireAuthenticatedWeb redirects unauthenticated page requests to the
// login view.
func (authManager *AuthManager) RequireAuthenticatedWeb() gin.HandlerFunc {
	return func(context *gin.Context) {
		if !authManager.IsAuthenticated(context.Request) {
			context.Redirect(http.StatusFound, routeAdminLogin)
			context.Abort()
			return
		}
		context.Next()
	}
}

// RequireAuthenticatedJSON rejects unauthenticated API requests with 401.
func (authManager *AuthManager) RequireAuthenticatedJSON() gin.HandlerFunc {
	return func(context *gin.Context) {
		if !authManager.IsAuthenticated(context.Request) {
			context.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
			return
		}
		context.Next()
	}
}

// LoginFailed reports whether the request carries the failed-login marker set
// by HandleLogin on mismatch.
func LoginFailed(context *gin.Context) bool {
	return strings.TrimSpace(context.Query(loginFailureQueryParameter)) == loginFailureQueryValue
}
