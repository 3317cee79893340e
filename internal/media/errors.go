// Package media turns uploaded images into the stored large, medium and
// thumbnail variants and serves them back.
package media

import "errors"

var (
	// ErrInvalidImage is returned when the upload can not be decoded as a raster image.
	ErrInvalidImage = errors.New("file is not a readable image")
	// ErrNotAnImage is returned when the upload is not an image type.
	ErrNotAnImage = errors.New("only image files are allowed")
	// ErrFileTooLarge is returned when the upload exceeds the size ceiling.
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
	// ErrNoFlipAxis is returned when a flip requests neither axis.
	ErrNoFlipAxis = errors.New("flip needs a horizontal or vertical axis")
)
