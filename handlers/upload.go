package handlers

import (
	"context"
	"errors"
	"net/http"

	"smart-restaurant-api/logger"
	"smart-restaurant-api/repository"
	"smart-restaurant-api/storage"

	"github.com/gin-gonic/gin"
)

// upload is a file written to the disk for the current request.
type upload struct {
	path string
	url  string
}

// saveUpload stores the multipart file under field, if one was sent. It
// returns nil when the request carried no file. The admission check runs
// before anything is written.
func (h *Handler) saveUpload(c *gin.Context, field, dir string) (*upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, &repository.ValidationError{Field: field, Reason: err.Error()}
	}
	contentType, err := storage.Admit(fh.Filename, fh.Size, h.uploadMaxBytes)
	if err != nil {
		return nil, &repository.ValidationError{Field: field, Reason: err.Error()}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, &repository.StoreError{Op: "open upload", Err: err}
	}
	defer f.Close()

	path := storage.ObjectName(dir, fh.Filename, h.now())
	if err := h.disk.Put(c.Request.Context(), path, f, contentType); err != nil {
		return nil, &repository.StoreError{Op: "store upload", Err: err}
	}
	return &upload{path: path, url: h.disk.URL(path)}, nil
}

// discard removes an upload whose record was never written.
func (h *Handler) discard(ctx context.Context, u *upload) {
	if u == nil {
		return
	}
	if err := h.disk.Delete(ctx, u.path); err != nil {
		logger.FromCtx(ctx).Warn("upload cleanup failed", "path", u.path, "error", err)
	}
}

// release removes the object behind a replaced image URL. URLs the disk
// did not issue are left alone.
func (h *Handler) release(ctx context.Context, url string) {
	path, ok := h.disk.Path(url)
	if !ok {
		return
	}
	if err := h.disk.Delete(ctx, path); err != nil {
		logger.FromCtx(ctx).Warn("old image cleanup failed", "path", path, "error", err)
	}
}
