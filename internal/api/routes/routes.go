// server/internal/api/routes/routes.go
package routes

import (
	"net/http"
	"time"

	"lifelink-api-server/config"
	"lifelink-api-server/internal/api/handlers"
	"lifelink-api-server/internal/api/middleware"
	"lifelink-api-server/internal/auth"
	"lifelink-api-server/internal/logger"
	"lifelink-api-server/internal/models"
	"lifelink-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const healthMessage = "LifeLink Server Running..."

// Dependencies are the wired components the router hands to its handlers.
type Dependencies struct {
	Users         handlers.UserStore
	Donations     handlers.DonationStore
	Funds         handlers.FundStore
	Geo           handlers.GeoStore
	Requests      handlers.RequestStore
	Notifications handlers.NotificationStore
	Tokens        *auth.TokenManager
	Payments      handlers.PaymentProcessor
	Uploader      handlers.AvatarUploader
	Mail          handlers.EmailSender
	Hub           *socket.Hub
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// SetupRouter wires every handler and its middleware chain.
func SetupRouter(cfg config.Config, deps Dependencies, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.Component(log, "http")))
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	notify := &handlers.NotificationSender{
		Store: deps.Notifications,
		Hub:   deps.Hub,
		Mail:  deps.Mail,
		Log:   logger.Component(log, "notifications"),
	}

	authHandler := &handlers.AuthHandler{Users: deps.Users, Tokens: deps.Tokens, Uploader: deps.Uploader, Log: logger.Component(log, "auth")}
	donationHandler := &handlers.DonationHandler{Donations: deps.Donations, Notify: notify, Log: logger.Component(log, "donations")}
	adminHandler := &handlers.AdminHandler{Users: deps.Users, Donations: deps.Donations, Funds: deps.Funds, Log: logger.Component(log, "admin")}
	donorHandler := &handlers.DonorHandler{Users: deps.Users, Log: logger.Component(log, "donors")}
	fundHandler := &handlers.FundHandler{Funds: deps.Funds, Payments: deps.Payments, Log: logger.Component(log, "funds")}
	geoHandler := &handlers.GeoHandler{Geo: deps.Geo, Log: logger.Component(log, "geo")}
	volunteerHandler := &handlers.VolunteerHandler{Users: deps.Users, Log: logger.Component(log, "volunteer")}
	requestHandler := &handlers.RequestHandler{Requests: deps.Requests, Notify: notify, Log: logger.Component(log, "requests")}
	notificationHandler := &handlers.NotificationHandler{Notifications: deps.Notifications, Log: logger.Component(log, "notifications")}
	webSocketHandler := &handlers.WebSocketHandler{Hub: deps.Hub, Tokens: deps.Tokens, Users: deps.Users, Log: logger.Component(log, "websocket")}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, healthMessage)
	})

	// Every protected route reloads the user so that blocks and role changes apply immediately.
	authenticated := []gin.HandlerFunc{
		middleware.Authenticate(deps.Tokens),
		middleware.RequireActive(deps.Users, logger.Component(log, "auth")),
	}

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)

			profile := authRoutes.Group("", authenticated...)
			{
				profile.GET("/profile", authHandler.Profile)
				profile.PATCH("/profile", authHandler.UpdateProfile)
				profile.PATCH("/password", authHandler.ChangePassword)
				profile.POST("/profile/avatar", authHandler.UploadAvatar)
			}
		}

		geo := api.Group("/geo")
		{
			geo.GET("/districts", geoHandler.GetDistricts)
			geo.GET("/upazilas/:districtId", geoHandler.GetUpazilas)
		}

		donations := api.Group("/donations", authenticated...)
		{
			donations.POST("", middleware.Authorize(models.RoleDonor), donationHandler.CreateDonationRequest)
			donations.GET("/my", donationHandler.GetMyDonationRequests)
			donations.GET("", middleware.Authorize(models.RoleVolunteer, models.RoleAdmin), donationHandler.GetAllDonationRequests)
			donations.GET("/:id", donationHandler.GetDonationRequest)
			donations.PATCH("/accept/:id", middleware.Authorize(models.RoleVolunteer, models.RoleAdmin), donationHandler.AcceptDonationRequest)
			donations.PATCH("/done/:id", donationHandler.CompleteDonationRequest)
			donations.PATCH("/cancel/:id", donationHandler.CancelDonationRequest)
		}

		admin := api.Group("/admin", authenticated...)
		admin.Use(middleware.Authorize(models.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/block/:id", adminHandler.BlockUser)
			admin.PATCH("/users/unblock/:id", adminHandler.UnblockUser)
			admin.PATCH("/users/make-volunteer/:id", adminHandler.MakeVolunteer)
			admin.PATCH("/users/make-admin/:id", adminHandler.MakeAdmin)
			admin.GET("/stats", adminHandler.Stats)
		}

		donors := api.Group("/donors", authenticated...)
		{
			donors.GET("/match", donorHandler.MatchDonors)
		}

		funds := api.Group("/funds", authenticated...)
		{
			funds.POST("/create-payment-intent", fundHandler.CreatePaymentIntent)
			funds.POST("", fundHandler.RecordFund)
			funds.GET("", middleware.Authorize(models.RoleAdmin, models.RoleVolunteer), fundHandler.ListFunds)
			funds.GET("/total", middleware.Authorize(models.RoleAdmin, models.RoleVolunteer), fundHandler.TotalFunds)
		}

		volunteer := api.Group("/volunteer", authenticated...)
		volunteer.Use(middleware.Authorize(models.RoleVolunteer))
		{
			volunteer.PATCH("/availability", volunteerHandler.UpdateAvailability)
		}

		requests := api.Group("/requests", authenticated...)
		{
			requests.POST("", middleware.Authorize(models.RoleDonor), requestHandler.CreateRequest)
			requests.GET("/my", requestHandler.GetMyRequests)
			requests.GET("", middleware.Authorize(models.RoleVolunteer), requestHandler.GetRequests)
			requests.POST("/:id/accept", middleware.Authorize(models.RoleVolunteer), requestHandler.AcceptRequest)
			requests.POST("/:id/complete", middleware.Authorize(models.RoleVolunteer), requestHandler.CompleteRequest)
		}

		// The socket authenticates with ?token= since browsers cannot set headers on the handshake.
		api.GET("/notifications/ws", webSocketHandler.ServeWs)
		notifications := api.Group("/notifications", authenticated...)
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		}
	}

	return router
}
