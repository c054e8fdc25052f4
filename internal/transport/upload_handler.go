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

// UploadResponse is the upload result, files in submission order
type UploadResponse struct {
	Files []service.UploadedFile `json:"files"`
}

// UploadHandler handles multipart photo uploads
type UploadHandler struct {
	uploadService service.UploadService
	maxFileSize   int64
	maxFiles      int
	logger        *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService service.UploadService, maxFileSize int64, maxFiles int, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxFileSize:   maxFileSize,
		maxFiles:      maxFiles,
		logger:        logger,
	}
}

// RegisterRoutes registers the upload route. Uploads mutate state, so
// they sit behind the auth middleware like every other mutating route.
func (h *UploadHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/upload/{itemID}", h.Upload)
	})
}

// Upload handles POST /upload/{itemID} with multipart field "photos".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	// Cap the whole request body at the per-file ceiling times the file
	// count limit, plus slack for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize*int64(h.maxFiles)+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form or request too large")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["photos"]

	result, err := h.uploadService.UploadPhotos(r.Context(), itemID, files)
	if err != nil {
		switch err {
		case service.ErrNoFilesProvided:
			middleware.RespondWithError(w, http.StatusBadRequest, "no files provided")
		case service.ErrInvalidFileType:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case service.ErrFileTooLarge:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case service.ErrTooManyFiles:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrItemNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
		default:
			h.logger.Error("Upload failed",
				zap.String("item_id", itemID.String()),
				zap.Int("file_count", len(files)),
				zap.Error(err),
			)
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store uploaded files")
		}
		return
	}

	h.logger.Info("Photos uploaded",
		zap.String("item_id", itemID.String()),
		zap.Int("count", len(result)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, UploadResponse{Files: result})
}
