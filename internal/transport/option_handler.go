package transport

import (
	"net/http"

	"inventory-api/internal/middleware"
	"inventory-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OptionRequest appends one value to a type's list
type OptionRequest struct {
	Type  string `json:"type" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// OptionHandler handles HTTP requests for the option lists
type OptionHandler struct {
	optionService service.OptionService
	logger        *zap.Logger
}

// NewOptionHandler creates a new OptionHandler
func NewOptionHandler(optionService service.OptionService, logger *zap.Logger) *OptionHandler {
	return &OptionHandler{
		optionService: optionService,
		logger:        logger,
	}
}

// RegisterRoutes registers the option routes; both are public
func (h *OptionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/options", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Append)
	})
}

// List handles GET /api/options
func (h *OptionHandler) List(w http.ResponseWriter, r *http.Request) {
	options, err := h.optionService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list options", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch options")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, options)
}

// Append handles POST /api/options
func (h *OptionHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req OptionRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	option, err := h.optionService.Append(r.Context(), req.Type, req.Value)
	if err != nil {
		h.logger.Error("Failed to append option value", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save option")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, option)
}
