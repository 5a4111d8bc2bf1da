package handler

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/shaderlpay/backend/internal/storage"
	"github.com/shaderlpay/backend/pkg/auth"
)

const maxUploadSize = 5 << 20 // 5 MB

var allowedContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// UploadHandler stores images/documents and returns their public URL. The
// rest of the system only ever handles that URL string.
type UploadHandler struct {
	storage storage.Storage
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{storage: store}
}

// Upload handles POST /api/uploads (auth required, multipart field "file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file_too_large"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file_required"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file_too_large"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_type"})
		return
	}

	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	key := "uploads/" + principal.ID + "/" + hex.EncodeToString(buf) + ext

	url, err := h.storage.Save(r.Context(), key, file, contentType)
	if err != nil {
		slog.Error("upload failed", "key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "upload_failed"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
