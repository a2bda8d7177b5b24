// Command inference-proxy holds the model endpoint credential server-side and
// relays plan-generation requests from the authenticated client application.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lamx12/nutri-plan/internal/api"
	"lamx12/nutri-plan/internal/config"
	"lamx12/nutri-plan/internal/logging"
	"lamx12/nutri-plan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}
	logger := logging.New(cfg.Log)
	log := logging.Component(logger, "proxy")
	log.Info("configuration loaded")

	if cfg.Proxy.UpstreamToken == "" {
		log.Warn("PROXY_UPSTREAM_TOKEN is empty, upstream calls will be unauthenticated")
	}

	// --- Services ---
	authService, err := service.NewAuthService(cfg.Proxy.ClientID, cfg.Proxy.ClientSecretHash, cfg.Proxy.JWT.Secret, cfg.Proxy.JWT.Expiration)
	if err != nil {
		log.WithError(err).Fatal("invalid proxy auth configuration")
	}
	inferenceHandler := api.NewInferenceHandler(
		cfg.Proxy.UpstreamURL,
		cfg.Proxy.UpstreamToken,
		&http.Client{Timeout: cfg.Inference.Timeout},
		logging.Component(logger, "relay"),
	)

	// --- Router ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	api.SetupRoutes(router, authService, inferenceHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Proxy.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	// The upstream model can take most of the inference timeout to answer.
	server := &http.Server{
		Addr:         cfg.Proxy.Address,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Inference.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		log.WithField("address", cfg.Proxy.Address).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server exiting")
}

func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}
