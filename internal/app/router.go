// internal/app/router.go
package app

import (
	authHandler "insurica-service/internal/handlers/auth"
	clientHandler "insurica-service/internal/handlers/client"
	dashboardHandler "insurica-service/internal/handlers/dashboard"
	leadHandler "insurica-service/internal/handlers/lead"
	notifyHandler "insurica-service/internal/handlers/notification"
	policyHandler "insurica-service/internal/handlers/policy"
	productHandler "insurica-service/internal/handlers/product"
	renewalHandler "insurica-service/internal/handlers/renewal"
	wsHandler "insurica-service/internal/handlers/websocket"
	"insurica-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler      *authHandler.AuthHandler
	ClientHandler    *clientHandler.ClientHandler
	PolicyHandler    *policyHandler.PolicyHandler
	LeadHandler      *leadHandler.LeadHandler
	ProductHandler   *productHandler.ProductHandler
	NotifHandler     *notifyHandler.NotificationHandler
	DashboardHandler *dashboardHandler.DashboardHandler
	RenewalHandler   *renewalHandler.RenewalHandler
	WSHandler        *wsHandler.WebSocketHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.Connect)

	// ==================== Scheduled Renewals Trigger ====================
	// Called by the external scheduler; auth is the shared cron secret,
	// not an agent session.
	api.GET("/jobs/renewals", h.RenewalHandler.Run)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.POST("/refresh", h.AuthHandler.Refresh)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
		authProtected.GET("/me", h.AuthHandler.Profile)
		authProtected.PUT("/profile", h.AuthHandler.UpdateProfile)
		authProtected.PUT("/change-password", h.AuthHandler.ChangePassword)
	}

	// ==================== Clients ====================
	clients := api.Group("/clients")
	clients.Use(h.AuthMiddleware.Auth())
	{
		clients.GET("", h.ClientHandler.ListClients)
		clients.GET("/stats", h.ClientHandler.GetClientStats)
		clients.GET("/:id", h.ClientHandler.GetClient)
		clients.GET("/reference/:reference", h.ClientHandler.GetClientByReference)

		clients.POST("", h.ClientHandler.CreateClient)
		clients.PUT("/:id", h.ClientHandler.UpdateClient)
		clients.PUT("/:id/status", h.ClientHandler.SetClientStatus)
		clients.DELETE("/:id", h.ClientHandler.DeleteClient)
	}

	// ==================== Policies ====================
	policies := api.Group("/policies")
	policies.Use(h.AuthMiddleware.Auth())
	{
		policies.GET("", h.PolicyHandler.ListPolicies)
		policies.GET("/stats", h.PolicyHandler.GetPolicyStats)
		policies.GET("/:id", h.PolicyHandler.GetPolicy)

		policies.POST("", h.PolicyHandler.CreatePolicy)
		policies.PUT("/:id", h.PolicyHandler.UpdatePolicy)
		policies.PUT("/:id/status", h.PolicyHandler.UpdatePolicyStatus)
		policies.DELETE("/:id", h.PolicyHandler.DeletePolicy)
	}

	// ==================== Leads ====================
	leads := api.Group("/leads")
	leads.Use(h.AuthMiddleware.Auth())
	{
		leads.GET("", h.LeadHandler.ListLeads)
		leads.GET("/stats", h.LeadHandler.GetLeadStats)
		leads.GET("/:id", h.LeadHandler.GetLead)

		leads.POST("", h.LeadHandler.CreateLead)
		leads.PUT("/:id", h.LeadHandler.UpdateLead)
		leads.POST("/:id/convert", h.LeadHandler.ConvertLead)
		leads.DELETE("/:id", h.LeadHandler.DeleteLead)
	}

	// ==================== Product Catalogue ====================
	products := api.Group("/products")
	products.Use(h.AuthMiddleware.Auth())
	{
		products.GET("", h.ProductHandler.ListProducts)
		products.GET("/:id", h.ProductHandler.GetProduct)
		products.GET("/code/:code", h.ProductHandler.GetProductByCode)
	}

	// Catalogue writes are admin only.
	adminProducts := api.Group("/products")
	adminProducts.Use(h.AuthMiddleware.AdminOnly()...)
	{
		adminProducts.POST("", h.ProductHandler.CreateProduct)
		adminProducts.PUT("/:id", h.ProductHandler.UpdateProduct)
		adminProducts.PUT("/:id/active", h.ProductHandler.SetProductActive)
		adminProducts.DELETE("/:id", h.ProductHandler.DeleteProduct)
	}

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	notifications.Use(h.AuthMiddleware.Auth())
	{
		notifications.GET("", h.NotifHandler.ListNotifications)
		notifications.GET("/count/unread", h.NotifHandler.UnreadCount)
		notifications.PUT("/:id/read", h.NotifHandler.MarkRead)
		notifications.PUT("/read-all", h.NotifHandler.MarkAllRead)
	}

	// ==================== Dashboard ====================
	dashboard := api.Group("/dashboard")
	dashboard.Use(h.AuthMiddleware.Auth())
	{
		dashboard.GET("/summary", h.DashboardHandler.GetSummary)
	}

	// ==================== Admin Routes ====================
	admin := api.Group("/admin")
	{
		superAdmin := admin.Group("")
		superAdmin.Use(h.AuthMiddleware.SuperAdminOnly()...)
		{
			superAdmin.GET("/agents", h.AuthHandler.ListAgents)
			superAdmin.PUT("/agents/:id/active", h.AuthHandler.SetAgentActive)
			superAdmin.GET("/ws/stats", h.WSHandler.Stats)
		}
	}
}
