package handler

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"egresados/pkg/errors"
)

// maxUploadSize bounds multipart image uploads.
const maxUploadSize = 10 << 20

// openUpload opens the named multipart file. A missing file yields (nil, nil).
func openUpload(c echo.Context, field string) (io.ReadCloser, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) || stderrors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, errors.BadRequest("Invalid upload", err)
	}
	if fh.Size > maxUploadSize {
		return nil, errors.Validation("File is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, errors.BadRequest("Invalid upload", err)
	}
	return f, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}
