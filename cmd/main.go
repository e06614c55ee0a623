package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/bookclub-server/config"
	"github.com/vnkhanh/bookclub-server/middleware"
	"github.com/vnkhanh/bookclub-server/routes"
	"github.com/vnkhanh/bookclub-server/store"
)

func main() {
	settings := config.Load()

	// connect DB + AutoMigrate
	config.ConnectDB(settings)

	if settings.RedisURL != "" {
		rc, err := store.NewRedisClient(settings.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rc.Close()
		if err := rc.Ping(context.Background()); err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		middleware.Denylist = rc
	}

	r := gin.Default()
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	middleware.SetUpSessions(r, settings.SessionSecret, settings.SecureCookies)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Book club server is running")
	})

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	authLimiter := middleware.NewIPRateLimiter(settings.AuthRatePerMin, 5, 5*time.Minute)
	defer authLimiter.Close()
	inviteLimiter := middleware.NewIPRateLimiter(settings.InviteRatePerMin, 10, 5*time.Minute)
	defer inviteLimiter.Close()

	routes.SetupRoutes(r, routes.Options{
		AuthLimiter:   authLimiter,
		InviteLimiter: inviteLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server listening on port %s\n", settings.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
