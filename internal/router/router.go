package router

import (
	"database/sql"
	"net/http"
	"os"

	"pet-lost-and-found/internal/adapters/storage/memory"
	pg "pet-lost-and-found/internal/adapters/storage/postgres"
	"pet-lost-and-found/internal/adapters/uploads/local"
	"pet-lost-and-found/internal/domain/pets"
	"pet-lost-and-found/internal/domain/reports"
	"pet-lost-and-found/internal/middleware"
	"pet-lost-and-found/internal/platform/logger"
	"pet-lost-and-found/internal/ports/auth"
	"pet-lost-and-found/internal/ports/directory"
	"pet-lost-and-found/internal/ports/uploads"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // nil => modo dev (X-Debug-User-ID)

	// Opcional: si viene, usa Postgres. Si no, intenta DB_DSN y cae a in-memory.
	DB *sql.DB

	Logger logger.Logger

	// Colaboradores opcionales; nil se tolera (sin joins de usuario /
	// uploader local de dev).
	Users    directory.UserResolver
	Uploader uploads.Uploader

	// Directorio del uploader local de dev (default "uploads").
	UploadDir string
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(opts.Logger))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Si no te pasan DB explícita, intenta por env (dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			if opened, err := pg.Open(dsn); err == nil {
				db = opened
			} else if opts.Logger != nil {
				opts.Logger.Warn("postgres unavailable, using in-memory store", map[string]any{"error": err.Error()})
			}
		}
	}

	var (
		petRepo     pets.Repository
		reportsRepo reports.Repository
	)
	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		reportsRepo = pg.NewReportsRepo(db)
	} else {
		petRepo = memory.NewPetRepo()
		reportsRepo = memory.NewReportsRepo()
	}

	// Uploader: sin adapter externo, archivos a disco servidos por el router.
	uploader := opts.Uploader
	if uploader == nil {
		dir := opts.UploadDir
		if dir == "" {
			dir = "uploads"
		}
		if up, err := local.New(dir, "/uploads"); err == nil {
			uploader = up
			r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir))))
		} else if opts.Logger != nil {
			opts.Logger.Warn("local uploader unavailable, photo files disabled", map[string]any{"error": err.Error()})
		}
	}

	petsSvc := pets.NewService(petRepo)
	reportsSvc := reports.NewService(reportsRepo, petsSvc)

	pets.RegisterRoutes(r, petsSvc)
	reports.RegisterRoutes(r, reportsSvc, petsSvc, opts.Users, uploader)

	return r
}
