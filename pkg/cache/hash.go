package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"image"
	"image/draw"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashImages hashes the size and pixels of every image of a matrix, row by
// row. Two matrices hash equal iff they draw identically.
func HashImages(matrix [][]image.Image) string {
	h := sha256.New()
	for _, row := range matrix {
		fmt.Fprintf(h, "row:%d;", len(row))
		for _, img := range row {
			writeImage(h, img)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeImage(h hash.Hash, img image.Image) {
	if img == nil {
		h.Write([]byte("nil;"))
		return
	}
	b := img.Bounds()
	fmt.Fprintf(h, "img:%dx%d;", b.Dx(), b.Dy())

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*b.Dx() {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Rect, img, b.Min, draw.Src)
	}
	h.Write(nrgba.Pix)
}
