package models

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// MediaKind is the coarse media classification used for previews.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
	KindDoc   MediaKind = "doc"
)

// KindFromMIME derives the media kind from a MIME type.
func KindFromMIME(mime string) MediaKind {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "video/"):
		return KindVideo
	default:
		return KindDoc
	}
}

// ParseKind accepts an explicit kind label; anything unknown is a doc.
func ParseKind(s string) MediaKind {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindImage:
		return KindImage
	case KindVideo:
		return KindVideo
	default:
		return KindDoc
	}
}

// ShareInfo describes the share relationship of an item that came from a
// shared-file listing.
type ShareInfo struct {
	Owner     string    `json:"owner,omitempty"`
	Recipient string    `json:"recipient,omitempty"`
	SharedOn  time.Time `json:"sharedOn,omitzero"`
	Owned     bool      `json:"owned,omitempty"`
}

// FileSummary is one entry of a file listing.
//
// An empty ID means the backend supplied no usable identifier; such items
// must not be offered to id-based operations (delete, favorite, share).
type FileSummary struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name"`
	Size         int64      `json:"size"`
	SizeLabel    string     `json:"sizeLabel,omitempty"`
	CreatedAt    time.Time  `json:"createdAt,omitzero"`
	Kind         MediaKind  `json:"type"`
	MimeType     string     `json:"mimeType,omitempty"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	Favorite     bool       `json:"favorite"`
	Shared       *ShareInfo `json:"shared,omitempty"`
}

func (f FileSummary) HasID() bool { return f.ID != "" }

// DisplaySize renders the size for humans. A label supplied verbatim by the
// backend ("1.5 MB") is kept as is.
func (f FileSummary) DisplaySize() string {
	if f.SizeLabel != "" {
		return f.SizeLabel
	}
	if f.Size <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(f.Size))
}

// Extension is the upper-cased file extension, or "".
func (f FileSummary) Extension() string {
	i := strings.LastIndexByte(f.Name, '.')
	if i < 0 || i == len(f.Name)-1 {
		return ""
	}
	return strings.ToUpper(f.Name[i+1:])
}

// FileDetail is the single-file view: the summary plus access details.
type FileDetail struct {
	FileSummary
	FileURL  string `json:"fileUrl,omitempty"`
	IsPublic bool   `json:"isPublic"`
}

// ShareRecord is the read-only result of sharing a file with someone. It is
// never mutated locally; callers re-fetch listings instead.
type ShareRecord struct {
	FileID      string    `json:"fileId,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	Recipient   string    `json:"recipient,omitempty"`
	SharedOn    time.Time `json:"sharedOn,omitzero"`
	ContentType string    `json:"contentType,omitempty"`
}
