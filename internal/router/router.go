package router

import (
	goerrors "errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storm/internal/auth"
	"storm/internal/config"
	"storm/internal/errors"
	"storm/internal/handler"
	"storm/internal/model"
)

// publicAuthPaths are the auth endpoints exempt from the session gate. This
// list is the single source of truth; route registration below must not grow
// its own notion of what is public.
var publicAuthPaths = []string{
	"/api/signup",
	"/api/login",
	"/api/logout",
	"/api/forgot-password",
	"/api/reset-password",
}

// isPublicRoute reports whether a request may bypass the session gate. Besides
// the auth endpoints, only the landing page's contact form create is open.
func isPublicRoute(method, path string) bool {
	for _, p := range publicAuthPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return method == http.MethodPost && path == "/api/contact_form_submissions"
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	resetHandler *handler.ResetHandler,
	contactHandler *handler.ContactHandler,
	cdnHandler *handler.CDNHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Unexpected errors become an opaque 500; detail stays in the server log.
	e.HTTPErrorHandler = httpErrorHandler

	// Static assets and SPA fallback for everything outside /api.
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  cfg.PublicDir,
		Index: "index.html",
		HTML5: true,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := e.Group("/api", sessionGate(jwtService))

	// Public auth routes (exempted by the gate's allowlist)
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)
	api.GET("/logout", authHandler.Logout)
	api.POST("/forgot-password", resetHandler.ForgotPassword)
	api.POST("/reset-password", resetHandler.ResetPassword)

	// Session-protected routes
	api.GET("/storm/me", authHandler.Me)

	// Contact form: create is the public landing-page form, the rest is the
	// admin dashboard's view of it.
	api.POST("/contact_form_submissions", contactHandler.Create)
	api.GET("/contact_form_submissions", contactHandler.List, requireAdmin)
	api.GET("/contact_form_submissions/:id", contactHandler.Get, requireAdmin)
	api.DELETE("/contact_form_submissions/:id", contactHandler.Delete, requireAdmin)

	// CDN helpers, only when an object store is configured
	if cdnHandler != nil {
		api.POST("/cdn/files", cdnHandler.Upload, requireAdmin)
		api.DELETE("/cdn/files", cdnHandler.Delete, requireAdmin)
	}
}

// sessionGate verifies the session token on every /api route not in the
// public allowlist. The token is accepted from the Authorization header and
// from the session cookie; both decode to the same claims.
func sessionGate(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper: func(c echo.Context) bool {
			return isPublicRoute(c.Request().Method, c.Request().URL.Path)
		},
		TokenLookup: "header:Authorization:Bearer ,cookie:" + auth.SessionCookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			switch {
			case goerrors.Is(err, auth.ErrSecretMissing):
				c.Logger().Error("JWT secret not configured")
				return c.JSON(http.StatusInternalServerError, errors.New("Server configuration error"))
			case goerrors.Is(err, auth.ErrTokenExpired):
				return c.JSON(http.StatusUnauthorized, errors.WithRedirect("Token expired", "/login.html"))
			case goerrors.Is(err, auth.ErrTokenInvalid):
				return c.JSON(http.StatusUnauthorized, errors.WithRedirect("Invalid token", "/login.html"))
			default:
				return c.JSON(http.StatusUnauthorized, errors.WithRedirect("No valid Authorization header provided", "/login.html"))
			}
		},
	})
}

// requireAdmin rejects non-admin sessions. Runs after the session gate, so a
// missing claim means the route was misregistered as public.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get("user").(*auth.SessionClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, errors.WithRedirect("Authentication required", "/login.html"))
		}
		if claims.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, errors.New("Admin access required"))
		}
		return next(c)
	}
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal Server Error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}
	if code == http.StatusInternalServerError {
		c.Logger().Errorf("unhandled error: %v", err)
		message = "Internal Server Error"
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errors.New(message))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
