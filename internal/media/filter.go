package media

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/pkg/errors"
)

// Upload is an accepted file ready for ingestion.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

// ReadUpload applies the size ceiling and image type check to a multipart
// file and reads it. The declared content type must not name a non-image
// type and the content itself must sniff as an image.
func ReadUpload(fh *multipart.FileHeader, maxSize int64) (Upload, error) {
	if fh.Size > maxSize {
		return Upload{}, ErrFileTooLarge
	}

	declared := fh.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" && !strings.HasPrefix(declared, "image/") {
		return Upload{}, ErrNotAnImage
	}

	f, err := fh.Open()
	if err != nil {
		return Upload{}, errors.Wrap(err, "failed to open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return Upload{}, errors.Wrap(err, "failed to read upload")
	}

	if int64(len(data)) > maxSize {
		return Upload{}, ErrFileTooLarge
	}

	return Sniff(filepath.Base(fh.Filename), data)
}

// Sniff checks the magic bytes of data and returns the upload with its detected MIME type.
func Sniff(filename string, data []byte) (Upload, error) {
	if !filetype.IsImage(data) {
		return Upload{}, ErrNotAnImage
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return Upload{}, errors.Wrap(err, "failed to detect file type")
	}

	return Upload{Filename: filename, MimeType: kind.MIME.Value, Data: data}, nil
}
