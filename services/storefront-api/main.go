package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/babulal-jewellers/storefront-backend/pkg/apihelpers"
	"github.com/babulal-jewellers/storefront-backend/services/storefront-api/apihandlers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	v1Root := router.Group("/v1")

	v1APIHandlers := apihandlers.NewHTTPHandler(
		conf.AdminUserConfig.AccessTokenConfig.SignKey,
		conf.AdminUserConfig.RefreshTokenConfig.SignKey,
		apihandlers.TokenTTLs{
			AccessToken:  conf.AdminUserConfig.AccessTokenConfig.ExpiresIn,
			RefreshToken: conf.AdminUserConfig.RefreshTokenConfig.ExpiresIn,
		},
		adminUserDBService,
		catalogDBService,
		enquiryDBService,
		cacheService,
		notificationMailer,
		conf.AdminUserConfig.UseSecureCookies,
		conf.MessagingConfigs.AdminEmail,
	)
	v1APIHandlers.AddStorefrontAPI(v1Root)

	if conf.GinConfig.DebugMode {
		apihelpers.WriteRoutesToFile(router, "storefront-api-routes.txt")
	}

	// Start the server
	slog.Info("Starting Storefront API on port " + conf.GinConfig.Port)
	if !conf.GinConfig.MTLS.Use {
		err := router.Run(":" + conf.GinConfig.Port)
		if err != nil {
			slog.Error("Exited Storefront API", slog.String("error", err.Error()))
			return
		}
	} else {
		// Create tls config for mutual TLS
		tlsConfig, err := apihelpers.LoadTLSConfig(conf.GinConfig.MTLS.CertificatePaths)
		if err != nil {
			slog.Error("Error loading TLS config.", slog.String("error", err.Error()))
			return
		}

		server := &http.Server{
			Addr:      ":" + conf.GinConfig.Port,
			Handler:   router,
			TLSConfig: tlsConfig,
		}

		err = server.ListenAndServeTLS(conf.GinConfig.MTLS.CertificatePaths.ServerCertPath, conf.GinConfig.MTLS.CertificatePaths.ServerKeyPath)
		if err != nil {
			slog.Error("Exited Storefront API", slog.String("error", err.Error()))
			return
		}
	}
}
