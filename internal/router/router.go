package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"splitbook/internal/auth"
	"splitbook/internal/config"
	"splitbook/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	groupHandler *handler.GroupHandler,
	expenseHandler *handler.ExpenseHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/send-otp", authHandler.SendOTP)
	api.POST("/auth/verify-otp", authHandler.VerifyOTP)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/verify-password-otp", authHandler.VerifyPasswordOTP)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.GET("/auth/users/:memberId", userHandler.FindByMemberCode)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	// Profile routes
	secured.GET("/auth/profile", userHandler.GetProfile)
	secured.PUT("/auth/profile", userHandler.UpdateProfile)
	secured.PUT("/auth/profile/avatar", userHandler.UploadAvatar)
	secured.POST("/auth/update-token", userHandler.UpdateToken)

	// Group routes
	secured.POST("/groups", groupHandler.Create)
	secured.GET("/groups/mine", groupHandler.Mine)
	secured.PUT("/groups/:id/members", groupHandler.AddMember)
	secured.DELETE("/groups/:id/members", groupHandler.RemoveMember)
	secured.PUT("/groups/:id/background", groupHandler.SetBackground)
	secured.DELETE("/groups/:id", groupHandler.Delete)

	// Expense routes
	secured.POST("/expenses/add", expenseHandler.Add)
	secured.GET("/expenses/group/:groupId/:month/:year", expenseHandler.GroupExpenses)
	secured.GET("/expenses/user/:groupId/:memberId/:month/:year", expenseHandler.UserExpenses)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
