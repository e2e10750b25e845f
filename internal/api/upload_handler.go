package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/inkforge/inkforge-api/internal/api/shared"
)

type uploadEnvelope struct {
	Success bool   `json:"success"`
	Image   string `json:"image"`
}

// UploadHandler converts uploaded image files into inline data URIs so
// they can ride along on task submissions.
type UploadHandler struct {
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadHandler creates a new UploadHandler capping uploads at maxBytes.
func NewUploadHandler(maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload handles POST /api/upload requests. The multipart form may spill
// large files to a transient location; that spill is removed on every
// exit path once the payload has been inlined.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Please upload a file")
		return
	}
	defer func() {
		_ = file.Close()
		if r.MultipartForm != nil {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				h.logger.Error("failed to remove upload spill", "error", err)
			}
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to read upload", err)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	image := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	h.logger.Debug("upload inlined",
		"filename", header.Filename,
		"size", len(data),
		"mime_type", mimeType)

	shared.RespondWithJSON(w, r, http.StatusOK, uploadEnvelope{Success: true, Image: image})
}
