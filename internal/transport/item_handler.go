package transport

import (
	"net/http"

	"inventory-api/internal/middleware"
	"inventory-api/internal/repository"
	"inventory-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemRequest represents the create/update payload. PUT is a full
// replace of these fields; price is the only optional one.
type ItemRequest struct {
	Name         string   `json:"name" validate:"required"`
	Quantity     int      `json:"quantity" validate:"gte=0"`
	Price        *float64 `json:"price,omitempty"`
	Category     string   `json:"category" validate:"required"`
	Manufacturer string   `json:"manufacturer" validate:"required"`
	Machine      string   `json:"machine" validate:"required"`
	Description  string   `json:"description" validate:"required"`
}

// ItemHandler handles HTTP requests for inventory items and photo deletion
type ItemHandler struct {
	itemService service.ItemService
	logger      *zap.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// RegisterRoutes registers the inventory and image routes behind the
// auth middleware.
func (h *ItemHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})

		r.Delete("/images/{id}", h.DeletePhoto)
	})
}

// List handles GET /inventory
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list items", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch inventory")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Get handles GET /inventory/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.itemService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}

		h.logger.Error("Failed to get item", zap.String("item_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Create handles POST /inventory
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Item validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.itemService.Create(r.Context(), toItemInput(req))
	if err != nil {
		if err == repository.ErrItemAlreadyExists {
			middleware.RespondWithError(w, http.StatusBadRequest, "item with this name already exists")
			return
		}

		h.logger.Error("Failed to create item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.logger.Info("Item created", zap.String("item_id", item.ID.String()), zap.String("name", item.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// Update handles PUT /inventory/{id}; scalar fields are replaced, the
// photo list is untouched.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req ItemRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Item validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.itemService.Update(r.Context(), id, toItemInput(req))
	if err != nil {
		switch err {
		case repository.ErrItemNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
		case repository.ErrItemAlreadyExists:
			middleware.RespondWithError(w, http.StatusBadRequest, "item with this name already exists")
		default:
			h.logger.Error("Failed to update item", zap.String("item_id", id.String()), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update item")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /inventory/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.itemService.Delete(r.Context(), id); err != nil {
		if err == repository.ErrItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}

		h.logger.Error("Failed to delete item", zap.String("item_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.logger.Info("Item deleted", zap.String("item_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// DeletePhoto handles DELETE /images/{id}. A failed file removal after
// the record is gone is reported distinctly from not-found.
func (h *ItemHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	if err := h.itemService.DeletePhoto(r.Context(), id); err != nil {
		switch err {
		case repository.ErrPhotoNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "photo not found")
		case service.ErrPhotoFileRemove:
			middleware.RespondWithError(w, http.StatusInternalServerError, "photo record deleted but file removal failed")
		default:
			h.logger.Error("Failed to delete photo", zap.String("photo_id", id.String()), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete photo")
		}
		return
	}

	h.logger.Info("Photo deleted", zap.String("photo_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func toItemInput(req ItemRequest) service.ItemInput {
	return service.ItemInput{
		Name:         req.Name,
		Quantity:     req.Quantity,
		Price:        req.Price,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		Machine:      req.Machine,
		Description:  req.Description,
	}
}
