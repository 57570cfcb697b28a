package main

import (
	"net/http"
	"os"
	"time"

	"pet-lost-and-found/internal/adapters/auth/sso"
	"pet-lost-and-found/internal/adapters/directory/accounts"
	"pet-lost-and-found/internal/adapters/uploads/imagehost"
	"pet-lost-and-found/internal/platform/logger"
	"pet-lost-and-found/internal/ports/auth"
	"pet-lost-and-found/internal/ports/directory"
	"pet-lost-and-found/internal/ports/uploads"
	"pet-lost-and-found/internal/router"

	"github.com/joho/godotenv"
)

// @title Pet Lost and Found API
// @description Reportes de mascotas perdidas, avistamientos y su resolución.
// @version 1.0
func main() {
	_ = godotenv.Load() // .env opcional en dev

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: buildVerifier(),
		Logger:       log,
		Users:        buildUserResolver(log),
		Uploader:     buildUploader(log),
		UploadDir:    os.Getenv("UPLOAD_DIR"),
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// buildVerifier arma el verifier de sesiones solo si está configurado;
// sin config el router queda en modo dev (X-Debug-User-ID).
func buildVerifier() auth.AuthVerifier {
	client := sso.NewClient(sso.Config{
		BaseURL: os.Getenv("SSO_BASE_URL"),
		APIKey:  os.Getenv("SSO_API_KEY"),
	})
	if !client.IsConfigured() {
		return nil
	}
	return sso.NewVerifier(client)
}

func buildUserResolver(log logger.Logger) directory.UserResolver {
	client, err := accounts.NewClient(accounts.Config{
		BaseURL: os.Getenv("ACCOUNTS_BASE_URL"),
		APIKey:  os.Getenv("ACCOUNTS_API_KEY"),
	})
	if err != nil {
		log.Warn("accounts client misconfigured, user joins disabled", map[string]any{"error": err.Error()})
		return nil
	}
	if !client.IsConfigured() {
		return nil
	}
	return client
}

func buildUploader(log logger.Logger) uploads.Uploader {
	client, err := imagehost.NewClient(imagehost.Config{
		BaseURL: os.Getenv("IMAGEHOST_BASE_URL"),
		APIKey:  os.Getenv("IMAGEHOST_API_KEY"),
	})
	if err != nil {
		log.Warn("imagehost client misconfigured, using local uploads", map[string]any{"error": err.Error()})
		return nil
	}
	if !client.IsConfigured() {
		return nil // el router cae al uploader local de dev
	}
	return client
}
