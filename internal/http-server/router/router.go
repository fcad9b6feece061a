package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/PauloAdam/consulta-produto-estoque/internal/config"
	"github.com/PauloAdam/consulta-produto-estoque/internal/http-server/handlers/health"
	"github.com/PauloAdam/consulta-produto-estoque/internal/http-server/handlers/home"
	"github.com/PauloAdam/consulta-produto-estoque/internal/http-server/handlers/products/lookup"
	"github.com/PauloAdam/consulta-produto-estoque/internal/middleware/cors"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

func New(
	log *slog.Logger,
	validate *validator.Validate,
	lookuper lookup.ProductLookuper,
	cfg config.HTTPServer,
	lookupTimeout time.Duration,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cfg.CORSOrigins))

	r.Get("/", home.New(log, cfg.PublicDir))
	r.Get("/healthz", health.New())
	r.Get("/produto/{codigo}", lookup.New(log, lookuper, validate, lookupTimeout))

	r.Handle("/*", http.FileServer(http.Dir(cfg.PublicDir)))

	return r
}
