// Package media turns uploaded car photos into stored full-size and
// thumbnail JPEGs.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	MaxFiles     = 10
	MaxFileBytes = 10 << 20
	JPEGQuality  = 85
)

type Variant struct {
	Name   string
	Width  int
	Height int
}

var (
	Full      = Variant{Name: "full", Width: 1200, Height: 800}
	Thumbnail = Variant{Name: "thumb", Width: 300, Height: 200}
)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

var (
	ErrUnsupportedType = errors.New("only .jpg, .jpeg, .png and .webp images are allowed")
	ErrTooLarge        = errors.New("image exceeds the 10MB limit")
	ErrTooManyFiles    = fmt.Errorf("at most %d images per upload", MaxFiles)
	ErrNoFiles         = errors.New("at least one image is required")
	ErrUnreadable      = errors.New("file could not be read as an image")
)

// FileInfo is what validation needs to know about an upload before reading it.
type FileInfo struct {
	Name string
	Size int64
}

// ValidateFiles checks count, extension and size of a batch and returns one
// message per problem.
func ValidateFiles(files []FileInfo) []string {
	if len(files) == 0 {
		return []string{ErrNoFiles.Error()}
	}
	if len(files) > MaxFiles {
		return []string{ErrTooManyFiles.Error()}
	}

	var errs []string
	for _, f := range files {
		if err := validateFile(f); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", f.Name, err))
		}
	}
	return errs
}

func validateFile(f FileInfo) error {
	if !allowedExt[strings.ToLower(filepath.Ext(f.Name))] {
		return ErrUnsupportedType
	}
	if f.Size > MaxFileBytes {
		return ErrTooLarge
	}
	return nil
}

// Decode reads an image honouring its EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return img, nil
}

// Render crops src to fill v and encodes it as JPEG.
func Render(src image.Image, v Variant) ([]byte, error) {
	dst := imaging.Fill(src, v.Width, v.Height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", v.Name, err)
	}
	return buf.Bytes(), nil
}
