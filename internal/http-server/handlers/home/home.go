package home

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	resp "github.com/PauloAdam/consulta-produto-estoque/internal/lib/api/response"
	"github.com/PauloAdam/consulta-produto-estoque/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

const indexFile = "index.html"

// New serves the landing page from publicDir.
func New(log *slog.Logger, publicDir string) http.HandlerFunc {
	index := filepath.Join(publicDir, indexFile)

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.home.New"

		if _, err := os.Stat(index); err != nil {
			log.Error("Landing page unavailable",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Err(err),
			)

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("Página não encontrada"))

			return
		}

		http.ServeFile(w, r, index)
	}
}
