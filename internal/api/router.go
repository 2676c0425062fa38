package api

import (
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hostel-allotment-backend/config"
	"hostel-allotment-backend/internal/allocation"
	"hostel-allotment-backend/internal/mw"
	"hostel-allotment-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, svc *allocation.Service, cfg *config.ServerConfig, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL+time.Minute)
	handler := NewHandler(s, svc, cacheStore, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hostel Allotment System API is running."})
	})

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Users
		api.POST("/users", handler.CreateUser)
		api.GET("/users/:email", handler.GetUser)
		api.GET("/wardens", handler.GetWardens)
		api.GET("/wardens-for-assign", handler.GetWardensForAssign)

		// Hostels and rooms (catalog reads are cached)
		api.POST("/hostels", handler.CreateHostel)
		api.GET("/hostels", caching, handler.GetHostels)
		api.GET("/available-hostels", caching, handler.GetAvailableHostels)
		api.GET("/hostels/:hostel_name/available-rooms", caching, handler.GetAvailableRooms)
		api.GET("/hostels/:hostel_name/students", handler.GetHostelStudents)
		api.PUT("/hostels/:hostel_name/assign-warden", handler.AssignWarden)
		api.PUT("/hostels/:hostel_name/remove-warden", handler.RemoveWarden)
		api.POST("/rooms", handler.CreateRoom)

		// Allocation requests
		api.POST("/applications", handler.SubmitApplication)
		api.GET("/pending-requests-admin", handler.GetPendingRequestsAdmin)
		api.GET("/closed-requests-admin", handler.GetClosedRequestsAdmin)
		api.GET("/pending-requests-warden/:hostel_name", handler.GetPendingRequestsWarden)
		api.GET("/closed-requests-warden/:hostel_name", handler.GetClosedRequestsWarden)
		api.PUT("/applications/:id/assign-hostel", handler.AssignHostel)
		api.PUT("/applications/:id/reject-hostel", handler.RejectHostel)
		api.PUT("/applications/:id/assign-room", handler.AssignRoom)
		api.PUT("/applications/:id/reject-room", handler.RejectRoom)

		// Push subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
