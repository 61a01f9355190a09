package storage

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ImageKind selects how an upload is resized.
type ImageKind int

const (
	ImageAvatar ImageKind = iota
	ImagePost
)

const (
	avatarSize   = 400
	postMaxSize  = 1200
	jpegQuality  = 85
	maxImageSize = 10 << 20
)

// PrepareImage decodes an upload, resizes it for its kind and re-encodes it as JPEG.
func PrepareImage(r io.Reader, kind ImageKind) ([]byte, string, error) {
	img, err := imaging.Decode(io.LimitReader(r, maxImageSize), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	var out image.Image
	switch kind {
	case ImageAvatar:
		out = imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)
	default:
		out = imaging.Fit(img, postMaxSize, postMaxSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

func objectName(folder, contentType string) string {
	name := fmt.Sprintf("%s/%s-%s", folder, uuid.New().String(), time.Now().Format("20060102150405"))

	switch contentType {
	case "image/jpeg", "image/jpg":
		return name + ".jpg"
	case "image/png":
		return name + ".png"
	case "image/gif":
		return name + ".gif"
	default:
		return name + ".bin"
	}
}
