package model

import "strings"

// Semantic file kinds recognized by the kindEquals condition.
const (
	KindImage        = "image"
	KindAudio        = "audio"
	KindVideo        = "video"
	KindDocument     = "document"
	KindSpreadsheet  = "spreadsheet"
	KindPresentation = "presentation"
	KindArchive      = "archive"
	KindCode         = "code"
)

// extensionKinds maps lowercase extensions to semantic kinds. Extensions not
// listed here never match any kind.
var extensionKinds = map[string]string{
	"jpg":  KindImage,
	"jpeg": KindImage,
	"png":  KindImage,
	"gif":  KindImage,
	"heic": KindImage,
	"webp": KindImage,
	"tiff": KindImage,
	"bmp":  KindImage,
	"svg":  KindImage,

	"mp3":  KindAudio,
	"wav":  KindAudio,
	"flac": KindAudio,
	"aac":  KindAudio,
	"m4a":  KindAudio,
	"ogg":  KindAudio,

	"mp4":  KindVideo,
	"mov":  KindVideo,
	"avi":  KindVideo,
	"mkv":  KindVideo,
	"webm": KindVideo,
	"m4v":  KindVideo,

	"pdf":   KindDocument,
	"doc":   KindDocument,
	"docx":  KindDocument,
	"txt":   KindDocument,
	"rtf":   KindDocument,
	"md":    KindDocument,
	"pages": KindDocument,
	"epub":  KindDocument,

	"xls":     KindSpreadsheet,
	"xlsx":    KindSpreadsheet,
	"csv":     KindSpreadsheet,
	"numbers": KindSpreadsheet,

	"ppt":  KindPresentation,
	"pptx": KindPresentation,
	"key":  KindPresentation,

	"zip": KindArchive,
	"tar": KindArchive,
	"gz":  KindArchive,
	"bz2": KindArchive,
	"xz":  KindArchive,
	"rar": KindArchive,
	"7z":  KindArchive,
	"dmg": KindArchive,

	"go":    KindCode,
	"py":    KindCode,
	"js":    KindCode,
	"ts":    KindCode,
	"rb":    KindCode,
	"rs":    KindCode,
	"c":     KindCode,
	"h":     KindCode,
	"cpp":   KindCode,
	"java":  KindCode,
	"swift": KindCode,
	"sh":    KindCode,
	"sql":   KindCode,
	"json":  KindCode,
	"yaml":  KindCode,
	"yml":   KindCode,
	"toml":  KindCode,
	"html":  KindCode,
	"css":   KindCode,
}

// KindForExtension returns the semantic kind for an extension, if any.
func KindForExtension(ext string) (string, bool) {
	kind, ok := extensionKinds[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return kind, ok
}
