package imagesig

import (
	"bytes"
	"os"
	"strings"
)

// Extensions lists the recognized local asset extensions in canonical
// preference order: webp first, then png, then the jpeg variants.
var Extensions = []string{"webp", "png", "jpg", "jpeg"}

// headerLen is the most we ever need to read to classify a file.
const headerLen = 16

var (
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// Recognized reports whether ext (without dot, any case) is one of the
// accepted local asset extensions.
func Recognized(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsValidImage reads the leading bytes of the file at path and reports
// whether they carry the magic signature expected for declaredExt. A file
// that is missing, unreadable, or too short for the signature is invalid,
// as is any extension outside the recognized set. An HTML error page saved
// with an image extension fails here regardless of its size.
func IsValidImage(path, declaredExt string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, headerLen)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		return false
	}
	header = header[:n]

	return MatchesSignature(header, declaredExt)
}

// MatchesSignature reports whether header opens with the magic bytes for
// declaredExt.
func MatchesSignature(header []byte, declaredExt string) bool {
	switch strings.ToLower(declaredExt) {
	case "webp":
		return len(header) >= 12 &&
			bytes.Equal(header[0:4], riffMagic) &&
			bytes.Equal(header[8:12], webpMagic)
	case "png":
		return len(header) >= 4 && bytes.Equal(header[0:4], pngMagic)
	case "jpg", "jpeg":
		return len(header) >= 3 && bytes.Equal(header[0:3], jpegMagic)
	}
	return false
}
