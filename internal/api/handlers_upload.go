package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/yoyowasi/ar-memo-backend/internal/api/respond"
	"github.com/yoyowasi/ar-memo-backend/internal/config"
	"github.com/yoyowasi/ar-memo-backend/internal/services"
)

type UploadHandler struct {
	svc *services.UploadService
	cfg *config.Config
}

func NewUploadHandler(svc *services.UploadService, cfg *config.Config) *UploadHandler {
	return &UploadHandler{svc: svc, cfg: cfg}
}

// UploadPhoto POST /api/uploads/photo
// Multipart field "photo", capped by ARMEMO_MAX_UPLOAD_BYTES. The content
// type is sniffed from the bytes, not trusted from the part header.
func (h *UploadHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		respond.WriteError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		respond.WriteBadRequest(w, "multipart field photo is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.WriteBadRequest(w, "failed to read upload")
		return
	}
	mime := http.DetectContentType(data)

	out, err := h.svc.StorePhoto(r.Context(), data, mime)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// PresignPhoto POST /api/memories/presigned-url
func (h *UploadHandler) PresignPhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	var req struct {
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.ContentType == "" {
		respond.WriteBadRequest(w, "contentType is required")
		return
	}

	out, err := h.svc.PresignPhoto(r.Context(), req.ContentType)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
