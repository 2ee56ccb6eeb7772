package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/petermazzocco/go-photo-gallery/internal/auth"
	"github.com/petermazzocco/go-photo-gallery/internal/upload"
)

// The multipart envelope around the file gets this much extra room.
const formOverhead = 1 << 20

// userIDParam returns the explicit id if set, otherwise the session's.
func userIDParam(r *http.Request, explicit string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	if id, ok := auth.UserIDFromContext(r.Context()); ok {
		return strconv.FormatUint(uint64(id), 10)
	}
	return ""
}

func (a *App) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > upload.MaxFileSize+formOverhead {
		writeError(w, http.StatusRequestEntityTooLarge, "Photo exceeds the 5 MB limit")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+formOverhead)
	if err := r.ParseMultipartForm(upload.MaxFileSize + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Photo exceeds the 5 MB limit")
			return
		}
		writeError(w, http.StatusBadRequest, "User ID and photo are required")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := upload.Request{
		UserID:    userIDParam(r, r.FormValue("userId")),
		PhotoName: r.FormValue("photoName"),
	}

	file, header, err := r.FormFile("imgfile")
	if err == nil {
		defer file.Close()
		// Read one byte past the limit so an understated header still fails.
		data, err := io.ReadAll(io.LimitReader(file, upload.MaxFileSize+1))
		if err != nil {
			a.Log.ErrorContext(r.Context(), "read upload failed", "err", err)
			writeError(w, http.StatusBadRequest, "User ID and photo are required")
			return
		}
		req.File = &upload.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Data:        data,
		}
	}

	res, err := a.Pipeline.Run(r.Context(), req)
	switch {
	case errors.Is(err, upload.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "User ID and photo are required")
		return
	case errors.Is(err, upload.ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Photo exceeds the 5 MB limit")
		return
	case errors.Is(err, upload.ErrUploadFailed):
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	case errors.Is(err, upload.ErrMetadataPersistFailed):
		writeError(w, http.StatusInternalServerError, "Failed to save photo")
		return
	case err != nil:
		a.Log.ErrorContext(r.Context(), "upload failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Photo uploaded",
		"photoUrl": res.URL,
	})
}

func (a *App) ListPhotosHandler(w http.ResponseWriter, r *http.Request) {
	raw := userIDParam(r, r.URL.Query().Get("userId"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	userID, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	photos, err := a.Photos.ListByUser(r.Context(), uint(userID))
	if err != nil {
		a.Log.ErrorContext(r.Context(), "list photos failed", "user_id", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch photos")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"photos": photos})
}
