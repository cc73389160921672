package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/cart"
	"github.com/yeremiapane/foodhub/controllers"
	"github.com/yeremiapane/foodhub/metrics"
	"github.com/yeremiapane/foodhub/middlewares"
	"github.com/yeremiapane/foodhub/policy"
	"github.com/yeremiapane/foodhub/services"
	"github.com/yeremiapane/foodhub/tracking"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/gorm"
)

// Options carries everything the HTTP layer needs from main.
type Options struct {
	DB             *gorm.DB
	CartStore      cart.Store
	Hub            *tracking.Hub
	DeliveryFee    float64
	AllowOrigins   []string
	TrustedProxies []string
	RateLimit      int
	RateInterval   int
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		utils.ErrorLogger.Errorf("invalid TRUSTED_PROXIES %v, trusting no proxy: %v", opts.TrustedProxies, err)
		if err := r.SetTrustedProxies(nil); err != nil {
			utils.ErrorLogger.Errorf("failed to reset trusted proxies: %v", err)
		}
	}

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.AllowOrigins))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(metrics.Middleware())
	if opts.RateLimit > 0 && opts.RateInterval > 0 {
		r.Use(middlewares.NewRateLimiter(opts.RateLimit, opts.RateInterval).RateLimit())
	}

	db := opts.DB
	if opts.Hub == nil {
		opts.Hub = tracking.NewHub()
	}
	orderSvc := services.NewOrderService(db, opts.Hub)

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db, orderSvc)
	cartCtrl := controllers.NewCartController(db, opts.CartStore, orderSvc, opts.DeliveryFee)
	adminCtrl := controllers.NewAdminController(db)
	trackingCtrl := controllers.NewTrackingController(opts.Hub, opts.AllowOrigins)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Stricter limit for login/register
	authLimiter := middlewares.NewStrictRateLimiter()
	public := r.Group("/")
	public.Use(authLimiter.RateLimit())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	r.GET("/restaurants", restaurantCtrl.ListRestaurants)
	r.GET("/restaurants/cuisines", restaurantCtrl.GetCuisines)
	r.GET("/restaurants/:id", restaurantCtrl.GetRestaurant)
	r.GET("/categories", categoryCtrl.GetAllCategories)

	// Cart works for guests (cookie) and signed-in users alike.
	cartGroup := r.Group("/cart")
	cartGroup.Use(middlewares.OptionalAuth())
	{
		cartGroup.GET("", cartCtrl.GetCart)
		cartGroup.POST("/items", cartCtrl.AddItem)
		cartGroup.PATCH("/items/:menu_item_id", cartCtrl.UpdateItem)
		cartGroup.DELETE("/items/:menu_item_id", cartCtrl.RemoveItem)
		cartGroup.DELETE("", cartCtrl.ClearCart)
	}

	r.GET("/ws/orders", middlewares.WebSocketAuthMiddleware(), trackingCtrl.OrdersFeed)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", userCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)

		auth.POST("/orders", middlewares.Authorize(policy.ResourceOrder, policy.ActionCreate), orderCtrl.CreateOrder)
		auth.GET("/orders", middlewares.Authorize(policy.ResourceOrder, policy.ActionList), orderCtrl.GetMyOrders)
		auth.GET("/orders/stats", middlewares.Authorize(policy.ResourceOrder, policy.ActionRead), orderCtrl.GetMyOrderStats)
		auth.GET("/orders/:order_id", middlewares.Authorize(policy.ResourceOrder, policy.ActionRead), orderCtrl.GetOrderByID)
		auth.PATCH("/orders/:order_id/status", middlewares.Authorize(policy.ResourceOrderStatus, policy.ActionUpdate), orderCtrl.UpdateOrderStatus)

		auth.POST("/cart/checkout", middlewares.Authorize(policy.ResourceOrder, policy.ActionCreate), cartCtrl.Checkout)
	}

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/staff")
	staff.Use(middlewares.AuthMiddleware())
	{
		staff.GET("/orders", middlewares.Authorize(policy.ResourceRestaurantOrder, policy.ActionList), orderCtrl.GetRestaurantOrders)
		staff.GET("/dashboard", middlewares.Authorize(policy.ResourceDashboard, policy.ActionRead), adminCtrl.GetStaffDashboard)
		staff.GET("/restaurants", middlewares.Authorize(policy.ResourceRestaurant, policy.ActionList), restaurantCtrl.ListOwnedRestaurants)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.GET("/dashboard", middlewares.Authorize(policy.ResourcePlatform, policy.ActionRead), adminCtrl.GetDashboardStats)
		admin.GET("/orders", middlewares.Authorize(policy.ResourcePlatform, policy.ActionRead), orderCtrl.GetAllOrders)

		admin.GET("/restaurants", middlewares.Authorize(policy.ResourceRestaurant, policy.ActionRead), restaurantCtrl.ListAllRestaurants)
		admin.POST("/restaurants", middlewares.Authorize(policy.ResourceRestaurant, policy.ActionCreate), restaurantCtrl.CreateRestaurant)
		admin.PATCH("/restaurants/:id", middlewares.Authorize(policy.ResourceRestaurant, policy.ActionUpdate), restaurantCtrl.UpdateRestaurant)
		admin.DELETE("/restaurants/:id", middlewares.Authorize(policy.ResourceRestaurant, policy.ActionDelete), restaurantCtrl.DeleteRestaurant)

		admin.GET("/menu-items", middlewares.Authorize(policy.ResourceMenuItem, policy.ActionList), menuCtrl.GetAllMenuItems)
		admin.POST("/menu-items", middlewares.Authorize(policy.ResourceMenuItem, policy.ActionCreate), menuCtrl.CreateMenuItem)
		admin.PATCH("/menu-items/:id", middlewares.Authorize(policy.ResourceMenuItem, policy.ActionUpdate), menuCtrl.UpdateMenuItem)
		admin.DELETE("/menu-items/:id", middlewares.Authorize(policy.ResourceMenuItem, policy.ActionDelete), menuCtrl.DeleteMenuItem)

		admin.POST("/categories", middlewares.Authorize(policy.ResourceCategory, policy.ActionCreate), categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:id", middlewares.Authorize(policy.ResourceCategory, policy.ActionUpdate), categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:id", middlewares.Authorize(policy.ResourceCategory, policy.ActionDelete), categoryCtrl.DeleteCategory)

		admin.GET("/users", middlewares.Authorize(policy.ResourceUser, policy.ActionList), userCtrl.GetAllUsers)
		admin.PATCH("/users/:id/role", middlewares.Authorize(policy.ResourceUser, policy.ActionUpdate), userCtrl.UpdateUserRole)
	}

	return r
}
