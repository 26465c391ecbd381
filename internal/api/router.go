package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/madezdev/ecommerce-api/docs"
	"github.com/madezdev/ecommerce-api/internal/api/handler"
	"github.com/madezdev/ecommerce-api/internal/api/middleware"
	"github.com/madezdev/ecommerce-api/internal/core/authz"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
	"github.com/madezdev/ecommerce-api/internal/infrastructure/http/handlers"
)

// Deps is everything the router needs to serve requests.
type Deps struct {
	Auth      ports.AuthService
	Passwords ports.PasswordResetService
	Users     ports.UserService
	Carts     ports.CartService
	Orders    ports.OrderService
	Products  ports.ProductService
	Questions ports.QuestionService

	Resolver ports.AuthenticationResolver
	Guard    *authz.Guard
	Health   map[string]handlers.Checker

	Cookie      handler.CookieOptions
	DebugErrors bool
	// DisableMetrics skips the Prometheus middleware; tests build many
	// routers in one process.
	DisableMetrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, deps.DebugErrors)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	if !deps.DisableMetrics {
		e.Use(echoprometheus.NewMiddleware("ecommerce"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Ops (no auth required) ---
	health := handlers.NewHealthHandler(deps.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := middleware.Auth(deps.Resolver)
	admin := middleware.AdminOnly()

	api := e.Group("/api")

	// --- Sessions ---
	sessions := handler.NewAuthHandler(deps.Auth, deps.Cookie)
	passwords := handler.NewPasswordHandler(deps.Passwords)
	s := api.Group("/sessions")
	s.POST("/register", sessions.Register)
	s.POST("/login", sessions.Login)
	s.GET("/current", sessions.Current, auth)
	s.POST("/admin", sessions.CreateAdmin, auth, admin)
	s.POST("/logout", sessions.Logout, auth)
	s.POST("/forgot-password", passwords.Forgot)
	s.GET("/reset-password/:token", passwords.Validate)
	s.POST("/reset-password/:token", passwords.Reset)

	// --- Users ---
	users := handler.NewUserHandler(deps.Users)
	u := api.Group("/users", auth)
	u.GET("", users.List, admin)
	u.GET("/:id", users.Get, middleware.SelfOrAdmin("id"))
	u.PUT("/:id", users.Update, middleware.SelfOrAdmin("id"))
	u.DELETE("/:id", users.Delete, admin)

	// --- Carts: auth, then complete profile, then ownership ---
	carts := handler.NewCartHandler(deps.Carts)
	owner := middleware.CartOwnership(deps.Guard, "id")
	complete := middleware.CompleteProfile()
	c := api.Group("/carts", auth)
	c.POST("", carts.Create)
	c.GET("/:id", carts.Get, owner)
	c.POST("/:id/products/:pid", carts.AddProduct, complete, owner)
	c.PUT("/:id/products/:pid", carts.SetQuantity, complete, owner)
	c.DELETE("/:id/products/:pid", carts.RemoveProduct, owner)
	c.DELETE("/:id", carts.Empty, owner)
	c.POST("/:id/purchase", carts.Purchase, complete, owner)

	// --- Orders ---
	orders := handler.NewOrderHandler(deps.Orders)
	o := api.Group("/orders", auth)
	o.GET("", orders.List, admin)
	o.GET("/user", orders.Mine)
	o.GET("/:orderId", orders.Get, middleware.OrderOwnership(deps.Guard, "orderId"))
	o.PATCH("/:orderId/status", orders.UpdateStatus, admin)

	// --- Products ---
	products := handler.NewProductHandler(deps.Products)
	p := api.Group("/products")
	p.GET("", products.List, middleware.OptionalAuth(deps.Resolver))
	p.GET("/:id", products.Get)
	p.POST("", products.Create, auth, admin)
	p.PUT("/:id", products.Update, auth, admin)
	p.DELETE("/:id", products.Delete, auth, admin)

	// --- Questions ---
	questions := handler.NewQuestionHandler(deps.Questions)
	q := api.Group("/questions")
	q.GET("/product/:productId", questions.ByProduct)
	q.GET("/user", questions.Mine, auth)
	q.POST("", questions.Ask, auth)
	q.GET("/unanswered", questions.Unanswered, auth, admin)
	q.POST("/:questionId/answer", questions.Answer, auth, admin)

	return e
}
