package routes

import (
	"net/http"

	"smart-restaurant-api/handlers"
	"smart-restaurant-api/metrics"
	"smart-restaurant-api/middleware"

	"github.com/gin-gonic/gin"
)

// Options are the pieces of the router that depend on deployment settings.
type Options struct {
	Tokens    *middleware.Tokens
	Metrics   *metrics.Metrics
	UploadURL string // route prefix for locally stored uploads
	UploadDir string // empty when uploads live off-host
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Smart Restaurant API",
			"version": "1.0.0",
		})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	if opts.UploadDir != "" && opts.UploadURL != "" {
		r.Static(opts.UploadURL, opts.UploadDir)
	}

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)

		// State machine info
		public.GET("/state-machine", h.GetStateMachineInfo)

		// Orders (shared by the admin dashboard and the customer site)
		public.GET("/orders", h.ListOrders)
		public.GET("/orders/summary", h.OrdersSummary)
		public.GET("/orders/:id", h.GetOrder)
		public.POST("/orders", h.CreateOrder)
		public.PUT("/orders/:id", h.UpdateOrder)
		public.DELETE("/orders/:id", h.DeleteOrder)
		public.GET("/customers-with-orders", h.CustomersWithOrders)

		// Customers
		public.GET("/customers", h.ListCustomers)
		public.GET("/customers/:id", h.GetCustomer)
		public.POST("/customers", h.CreateCustomer)
		public.PUT("/customers/:id", h.UpdateCustomer)
		public.POST("/customers/:id/profile", h.UpdateCustomerProfile)
		public.DELETE("/customers/:id", h.DeleteCustomer)

		// Menu
		public.GET("/meals", h.ListMeals)
		public.GET("/meals/:id", h.GetMeal)
		public.POST("/meals", h.CreateMeal)
		public.PUT("/meals/:id", h.UpdateMeal)
		public.DELETE("/meals/:id", h.DeleteMeal)
		public.GET("/meal-categories", h.ListCategories)
		public.POST("/meal-categories", h.CreateCategory)

		// Tables & reservations
		public.GET("/tables", h.ListTables)
		public.POST("/tables", h.CreateTable)
		public.PUT("/tables/:id/status", h.UpdateTableStatus)
		public.GET("/available-tables", h.ListAvailableTables)
		public.POST("/reservations", h.CreateReservation)

		// Recommendations
		public.GET("/ai/recommend/:customer_id", h.Recommend)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(opts.Tokens))
	{
		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateMyProfile)
		auth.GET("/me/orders", h.MyOrders)
	}
}
