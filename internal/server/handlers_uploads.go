package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bugdesk/internal/api"
	"bugdesk/internal/models"
)

// Accepted multipart field names, in lookup order.
var uploadFieldNames = []string{"file", "files", "upload"}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(s.multipartMem); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("upload too large")))
			return
		}
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("invalid multipart form: %w", err)))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	var headers []*multipart.FileHeader
	for _, field := range uploadFieldNames {
		headers = append(headers, r.MultipartForm.File[field]...)
	}
	if len(headers) == 0 {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("no file provided")))
		return
	}

	uploaded := make([]models.Attachment, 0, len(headers))
	for _, header := range headers {
		att, err := s.uploadOne(r, header)
		if err != nil {
			// Previously stored files in this batch stay behind; the
			// client gets no references and is expected to retry.
			s.writeServiceError(w, r, err)
			return
		}
		uploaded = append(uploaded, att)
	}

	s.writeJSON(w, http.StatusOK, api.UploadResponse{Uploaded: uploaded})
}

func (s *Server) uploadOne(r *http.Request, header *multipart.FileHeader) (models.Attachment, error) {
	file, err := header.Open()
	if err != nil {
		return models.Attachment{}, badRequest(fmt.Errorf("open uploaded file: %w", err))
	}
	defer file.Close()

	return s.uploadService.Upload(r.Context(), header.Filename, file)
}

func (s *Server) handleAttachment(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("invalid attachment key")))
		return
	}

	query := r.URL.Query()
	if err := s.signer.Verify(key, query.Get("expires"), query.Get("sig")); err != nil {
		s.writeErrorReq(w, r, http.StatusForbidden, forbidden(err))
		return
	}

	blob, err := s.blobs.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.writeErrorReq(w, r, http.StatusNotFound, notFound(fmt.Errorf("attachment %q not found", key)))
			return
		}
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}
	defer blob.Close()

	size, err := s.blobs.Stat(r.Context(), key)
	if err == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.Header().Set("Content-Type", contentTypeForKey(key))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filepath.Base(key)))

	if _, err := io.Copy(w, blob); err != nil {
		s.log().Debug("attachment stream interrupted", "key", key, "error", err)
	}
}

func contentTypeForKey(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
