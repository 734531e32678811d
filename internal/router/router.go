package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"legalai/internal/auth"
	"legalai/internal/config"
	"legalai/internal/handler"
	"legalai/internal/model"
	"legalai/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	profileService service.ProfileService,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	chatHandler *handler.ChatHandler,
	advisoryHandler *handler.AdvisoryHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	lawHandler *handler.LawHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if cfg.StorageProvider == "local" {
		e.Static("/files", cfg.StorageBasePath)
	}

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	// Profile routes
	secured.GET("/me", profileHandler.Me)
	secured.PUT("/me", profileHandler.Update)
	secured.POST("/me/avatar", profileHandler.UploadAvatar)
	secured.GET("/me/quota", profileHandler.Quota)
	secured.GET("/me/payments", profileHandler.Payments)

	// Chat routes
	secured.POST("/chat/messages", chatHandler.Send)
	secured.GET("/chat/sessions", chatHandler.Sessions)
	secured.GET("/chat/sessions/:id/messages", chatHandler.Messages)
	secured.DELETE("/chat/history", chatHandler.DeleteHistory)

	// Advisory routes
	secured.POST("/advisories", advisoryHandler.Create)
	secured.GET("/advisories", advisoryHandler.ListMine)

	// Subscription routes
	secured.GET("/subscription/config", subscriptionHandler.Config)
	secured.POST("/subscription/upgrade", subscriptionHandler.Upgrade)
	secured.POST("/subscription/downgrade", subscriptionHandler.RequestDowngrade)
	secured.POST("/subscription/renew", subscriptionHandler.Renew)

	// Laws catalog
	secured.GET("/laws", lawHandler.List)
	secured.GET("/laws/:code", lawHandler.Get)

	// Admin routes
	admin := secured.Group("/admin", adminOnly(profileService))
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/subscription-end", adminHandler.SetSubscriptionEnd)
	admin.GET("/stats/overview", adminHandler.Overview)
	admin.GET("/stats/revenue", adminHandler.Revenue)
	admin.GET("/stats/usage", adminHandler.Usage)
	admin.GET("/role-limits", adminHandler.ListRoleLimits)
	admin.PUT("/role-limits", adminHandler.SetRoleLimit)
	admin.PUT("/config/subscriptions", adminHandler.SetSubscriptionsEnabled)
	admin.PUT("/config/price", adminHandler.SetPlusPrice)
	admin.GET("/advisories", adminHandler.ListAdvisories)
	admin.POST("/advisories/:id/respond", adminHandler.RespondAdvisory)
}

// adminOnly checks the admin role against the stored profile, not the token
// claims, so a demoted admin is locked out as soon as the row changes.
func adminOnly(profiles service.ProfileService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			profile, err := profiles.Get(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
			}
			if profile.Role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
