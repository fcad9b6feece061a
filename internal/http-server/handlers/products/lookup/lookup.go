package lookup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "github.com/PauloAdam/consulta-produto-estoque/internal/lib/api/response"
	"github.com/PauloAdam/consulta-produto-estoque/internal/lib/logger/sl"
	"github.com/PauloAdam/consulta-produto-estoque/internal/models"
	"github.com/PauloAdam/consulta-produto-estoque/internal/products"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const (
	msgNotFound = "Produto não encontrado"
	msgUpstream = "Erro ao consultar Bling"
)

type Request struct {
	Code string `validate:"required,max=128"`
}

type ProductLookuper interface {
	Lookup(ctx context.Context, code string) (models.LookupResult, error)
}

func New(
	log *slog.Logger,
	lookuper ProductLookuper,
	validate *validator.Validate,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.lookup.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		req := Request{Code: chi.URLParam(r, "codigo")}

		if err := validate.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if !errors.As(err, &validateErr) {
				log.Error("Failed to validate code", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error(msgUpstream))

				return
			}

			// Out-of-range codes are a miss; Bling is not asked.
			log.Info("Invalid code", sl.Err(err))

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error(msgNotFound))

			return
		}

		log = log.With(slog.String("code", req.Code))

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		result, err := lookuper.Lookup(ctx, req.Code)
		if err != nil {
			if errors.Is(err, products.ErrProductNotFound) {
				log.Info("Product not found")

				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error(msgNotFound))

				return
			}

			log.Error("Failed to query bling", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(msgUpstream))

			return
		}

		log.Info("Product found", slog.Float64("stock", result.Stock))

		render.JSON(w, r, result)
	}
}
