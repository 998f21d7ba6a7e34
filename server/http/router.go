package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	brkHnd "brokerage-service/internal/brokerage/handler"
	"brokerage-service/internal/config"
	"brokerage-service/internal/middleware"
	"brokerage-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, h *brkHnd.Handler) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	r.Post("/import", h.Import)
	r.Get("/state", h.State)
	r.Post("/selection", h.Selection)
	r.Post("/rates", h.Rates)
	r.Post("/bill", h.Bill)
	r.Get("/preview", h.Preview)
	r.Get("/export", h.Export)
	r.Get("/period", h.GetPeriod)
	r.Put("/period", h.PutPeriod)

	return r
}
