package media

import (
	"path/filepath"
	"strings"
)

// Kind is the media category a placeholder or file refers to.
type Kind string

const (
	KindNone    Kind = ""
	KindPhoto   Kind = "photo"
	KindVideo   Kind = "video"
	KindAudio   Kind = "audio"
	KindSticker Kind = "sticker"
)

// Kinds lists every addressable kind in display order.
var Kinds = []Kind{KindPhoto, KindVideo, KindAudio, KindSticker}

// Category is the rendering family inferred from a file extension.
type Category string

const (
	CategoryUnknown Category = ""
	CategoryImage   Category = "image"
	CategoryVideo   Category = "video"
	CategoryAudio   Category = "audio"
	CategorySticker Category = "sticker"
)

// TypeInfo is the entry for one extension.
type TypeInfo struct {
	Category Category
	MIME     string
}

var extTable = map[string]TypeInfo{
	".jpg":  {CategoryImage, "image/jpeg"},
	".jpeg": {CategoryImage, "image/jpeg"},
	".png":  {CategoryImage, "image/png"},
	".gif":  {CategoryImage, "image/gif"},
	".webp": {CategorySticker, "image/webp"},
	".mp4":  {CategoryVideo, "video/mp4"},
	".mov":  {CategoryVideo, "video/quicktime"},
	".3gp":  {CategoryVideo, "video/3gpp"},
	".avi":  {CategoryVideo, "video/x-msvideo"},
	".opus": {CategoryAudio, "audio/ogg"},
	".ogg":  {CategoryAudio, "audio/ogg"},
	".mp3":  {CategoryAudio, "audio/mpeg"},
	".m4a":  {CategoryAudio, "audio/mp4"},
	".aac":  {CategoryAudio, "audio/aac"},
	".wav":  {CategoryAudio, "audio/wav"},
	".txt":  {CategoryUnknown, "text/plain; charset=utf-8"},
}

// LookupExt returns the category and MIME type for a file name.
// Unknown extensions map to CategoryUnknown and application/octet-stream.
func LookupExt(name string) TypeInfo {
	if info, ok := extTable[strings.ToLower(filepath.Ext(name))]; ok {
		return info
	}
	return TypeInfo{Category: CategoryUnknown, MIME: "application/octet-stream"}
}

// IsMedia reports whether name has an extension the viewer can render.
func IsMedia(name string) bool {
	return LookupExt(name).Category != CategoryUnknown
}

func parseKindToken(tok string) Kind {
	switch strings.ToUpper(tok) {
	case "PHOTO":
		return KindPhoto
	case "VIDEO":
		return KindVideo
	case "AUDIO":
		return KindAudio
	case "STICKER":
		return KindSticker
	}
	return KindNone
}
