package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/xyplot/pkg/errors"
)

// jpegQuality is used for every JPEG page.
const jpegQuality = 92

// EncodeImage writes img in the given format.
func EncodeImage(w io.Writer, img image.Image, format string) error {
	f, err := imagingFormat(format)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// EncodeBytes encodes img in the given format and returns the bytes.
func EncodeBytes(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeImage reads a PNG, JPEG, GIF, BMP or TIFF image.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image")
	}
	return img, nil
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	if format == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Extension returns the file extension, with dot, of an output format.
func Extension(format string) string {
	if format == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

func imagingFormat(format string) (imaging.Format, error) {
	switch format {
	case FormatPNG, "":
		return imaging.PNG, nil
	case FormatJPEG:
		return imaging.JPEG, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unsupported format: %s", format)
}
