package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/infrastructure/auth"
	"github.com/commerce/backend/internal/infrastructure/config"
	"github.com/commerce/backend/internal/interfaces/http/handler"
	"github.com/commerce/backend/internal/interfaces/http/middleware"
)

// Permission codes guarding staff endpoints, minted by the identity module
const (
	PermUserManage     = identity.CodeManageUsers
	PermGroupManage    = identity.CodeManageGroups
	PermCatalogManage  = identity.CodeManageCatalog
	PermOrderManage    = identity.CodeManageOrders
	PermVoucherManage  = identity.CodeManageVouchers
	PermReviewModerate = identity.CodeModerateReviews
	PermTicketManage   = identity.CodeManageTickets
	PermExportManage   = identity.CodeManageExports
)

// Handlers aggregates every HTTP handler wired into the router
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Group    *handler.GroupHandler
	Perm     *handler.PermissionHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	Voucher  *handler.VoucherHandler
	Review   *handler.ReviewHandler
	Ticket   *handler.TicketHandler
	Address  *handler.AddressHandler
	Export   *handler.ExportHandler
}

// Config carries everything the router needs besides the handlers
type Config struct {
	HTTP       config.HTTPConfig
	Telemetry  config.TelemetryConfig
	Docs       config.DocsConfig
	Env        string
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Logger     *zap.Logger
}

// New builds the gin engine with the full middleware chain and all routes
func New(cfg Config, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(gin.Recovery())
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	if cfg.Telemetry.Enabled {
		engine.Use(
			middleware.Tracing(middleware.TracingConfig{
				ServiceName: cfg.Telemetry.ServiceName,
				Enabled:     true,
			}),
			middleware.SpanEnricher(),
		)
	}
	engine.Use(
		middleware.RequestLogger(cfg.Logger),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		}),
	)

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	authRequired := middleware.JWT(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWTService,
		Blacklist:  cfg.Blacklist,
		Logger:     cfg.Logger,
	})

	engine.GET("/health", h.System.Health)

	if cfg.Docs.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group("/api/v1")

	registerPublicRoutes(api, h)
	registerAccountRoutes(api, h, authRequired)
	registerStaffRoutes(api, h, authRequired)

	return engine
}

// registerPublicRoutes wires the endpoints available without a token:
// registration, login, catalog browsing and guest checkout.
func registerPublicRoutes(api *gin.RouterGroup, h Handlers) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.GET("/:id/subcategories", h.Category.ListSubCategories)
	}

	subcategories := api.Group("/subcategories")
	{
		subcategories.GET("/:id", h.Category.GetSubCategory)
		subcategories.GET("/slug/:slug", h.Category.GetSubCategoryBySlug)
		subcategories.GET("/:id/products", h.Product.ListBySubCategory)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.GET("/slug/:slug", h.Product.GetBySlug)
		products.GET("/:id/reviews", h.Review.ListByProduct)
	}

	api.GET("/reviews/:id", h.Review.Get)
	api.GET("/vouchers/code/:code", h.Voucher.GetByCode)

	api.POST("/orders/guest", h.Order.CreateGuest)
	api.GET("/orders/track/:number", h.Order.Track)
}

// registerAccountRoutes wires the endpoints of an authenticated customer.
func registerAccountRoutes(api *gin.RouterGroup, h Handlers, authRequired gin.HandlerFunc) {
	authGroup := api.Group("/auth", authRequired)
	{
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/me", h.Auth.Me)
		authGroup.PUT("/password", h.Auth.ChangePassword)
	}

	orders := api.Group("/orders", authRequired)
	{
		orders.POST("", h.Order.Create)
		orders.GET("/mine", h.Order.ListMine)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/lines", h.Order.AddLine)
		orders.DELETE("/:id/lines/:productId", h.Order.RemoveLine)
		orders.PUT("/:id/address", h.Order.SetAddress)
		orders.POST("/:id/voucher", h.Order.ApplyVoucher)
		orders.POST("/:id/cancel", h.Order.Cancel)
	}

	reviews := api.Group("/reviews", authRequired)
	{
		reviews.POST("", h.Review.Submit)
		reviews.PUT("/:id", h.Review.Update)
		reviews.DELETE("/:id", h.Review.Delete)
		reviews.POST("/:id/vote", h.Review.Vote)
	}

	tickets := api.Group("/tickets", authRequired)
	{
		tickets.POST("", h.Ticket.Create)
		tickets.GET("/mine", h.Ticket.ListMine)
		tickets.GET("/:id", h.Ticket.Get)
		tickets.POST("/:id/messages", h.Ticket.AddMessage)
	}

	addresses := api.Group("/addresses", authRequired)
	{
		addresses.POST("", h.Address.Create)
		addresses.GET("", h.Address.List)
		addresses.GET("/:id", h.Address.Get)
		addresses.PUT("/:id", h.Address.Update)
		addresses.DELETE("/:id", h.Address.Delete)
		addresses.PUT("/:id/default-shipping", h.Address.SetDefaultShipping)
		addresses.PUT("/:id/default-billing", h.Address.SetDefaultBilling)
	}

	exports := api.Group("/exports", authRequired)
	{
		exports.POST("", h.Export.Request)
		exports.GET("/mine", h.Export.ListMine)
		exports.GET("/:id", h.Export.Get)
		exports.GET("/:id/download", h.Export.Download)
	}
}

// registerStaffRoutes wires the administration endpoints, each guarded by
// a permission check on top of authentication.
func registerStaffRoutes(api *gin.RouterGroup, h Handlers, authRequired gin.HandlerFunc) {
	admin := api.Group("/admin", authRequired)

	users := admin.Group("/users", middleware.RequirePermission(PermUserManage))
	{
		users.POST("", h.User.Create)
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
		users.POST("/:id/activate", h.User.Activate)
		users.POST("/:id/deactivate", h.User.Deactivate)
		users.POST("/:id/groups", h.User.AssignGroup)
		users.DELETE("/:id/groups/:groupId", h.User.RemoveGroup)
	}

	groups := admin.Group("/groups", middleware.RequirePermission(PermGroupManage))
	{
		groups.POST("", h.Group.Create)
		groups.GET("", h.Group.List)
		groups.GET("/:id", h.Group.Get)
		groups.PUT("/:id", h.Group.Update)
		groups.DELETE("/:id", h.Group.Delete)
		groups.POST("/:id/activate", h.Group.Activate)
		groups.POST("/:id/deactivate", h.Group.Deactivate)
		groups.POST("/:id/permissions", h.Group.GrantPermission)
		groups.DELETE("/:id/permissions/:permissionId", h.Group.RevokePermission)
	}

	permissions := admin.Group("/permissions", middleware.RequireSuperuser())
	{
		permissions.POST("", h.Perm.Create)
		permissions.GET("", h.Perm.List)
		permissions.GET("/:id", h.Perm.Get)
		permissions.DELETE("/:id", h.Perm.Delete)
	}

	categories := admin.Group("/categories", middleware.RequirePermission(PermCatalogManage))
	{
		categories.POST("", h.Category.Create)
		categories.PUT("/:id", h.Category.Rename)
		categories.DELETE("/:id", h.Category.Delete)
	}

	subcategories := admin.Group("/subcategories", middleware.RequirePermission(PermCatalogManage))
	{
		subcategories.POST("", h.Category.CreateSubCategory)
		subcategories.PUT("/:id", h.Category.RenameSubCategory)
		subcategories.PUT("/:id/category", h.Category.MoveSubCategory)
		subcategories.DELETE("/:id", h.Category.DeleteSubCategory)
	}

	products := admin.Group("/products", middleware.RequirePermission(PermCatalogManage))
	{
		products.POST("", h.Product.Create)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.POST("/:id/image", h.Product.UploadImage)
		products.POST("/:id/activate", h.Product.Activate)
		products.POST("/:id/deactivate", h.Product.Deactivate)
		products.POST("/:id/subcategories", h.Product.AssignSubCategory)
		products.DELETE("/:id/subcategories/:subCategoryId", h.Product.RemoveSubCategory)
	}

	orders := admin.Group("/orders", middleware.RequirePermission(PermOrderManage))
	{
		orders.GET("", h.Order.List)
		orders.PUT("/:id/status", h.Order.ChangeStatus)
	}

	vouchers := admin.Group("/vouchers", middleware.RequirePermission(PermVoucherManage))
	{
		vouchers.POST("", h.Voucher.Create)
		vouchers.GET("", h.Voucher.List)
		vouchers.GET("/:id", h.Voucher.Get)
		vouchers.DELETE("/:id", h.Voucher.Delete)
		vouchers.POST("/:id/activate", h.Voucher.Activate)
		vouchers.POST("/:id/deactivate", h.Voucher.Deactivate)
	}

	tickets := admin.Group("/tickets", middleware.RequirePermission(PermTicketManage))
	{
		tickets.GET("", h.Ticket.List)
		tickets.PUT("/:id/status", h.Ticket.Transition)
	}
}
