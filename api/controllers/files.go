package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/files"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const (
	filesField          = "files"
	multipartMemory     = 8 << 20
	filesRequiredMsg    = "files-required"
	uploadTooLargeMsg   = "upload-too-large"
	invalidMultipartMsg = "invalid-multipart-body"
)

type fileSaver interface {
	SaveFiles(ctx context.Context, uploads []files.Upload, folder string) ([]files.FileResponse, error)
}

// FilesUpload stores the multipart "files" parts under ?folder=.
func FilesUpload(storage fileSaver, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if storage == nil {
			unavailable(w, r, logg, "file storage")
			return
		}
		if _, ok := requireUser(w, r, logg); !ok {
			return
		}
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, uploadTooLargeMsg))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, invalidMultipartMsg))
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		headers := r.MultipartForm.File[filesField]
		if len(headers) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, filesRequiredMsg))
			return
		}
		uploads := make([]files.Upload, 0, len(headers))
		for _, fh := range headers {
			uploads = append(uploads, files.Upload{
				Name: fh.Filename,
				Open: func() (io.ReadCloser, error) { return fh.Open() },
			})
		}

		saved, err := storage.SaveFiles(r.Context(), uploads, r.URL.Query().Get("folder"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, saved)
	}
}
