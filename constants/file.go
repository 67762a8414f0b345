package constants

import "strings"

// Source formats the extractor understands.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	HEIC  = "HEIC" // photo formats that need converting before OCR
)

// AllowedExtensions holds the file extensions accepted for extraction.
var AllowedExtensions = map[string]string{
	"pdf":  PDF,
	"png":  IMAGE,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"tif":  IMAGE,
	"tiff": IMAGE,
	"heic": HEIC,
	"heif": HEIC,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns PDF, IMAGE, HEIC or "" for an extension (with or without dot).
func MapExtToFormat(ext string) string {
	return AllowedExtensions[NormalizeExt(ext)]
}
