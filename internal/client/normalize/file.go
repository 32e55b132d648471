package normalize

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/cloudshare/internal/client/models"
)

var (
	fileIDKeys        = Keys{"id", "_id", "fileId", "uuid"}
	sharedFileIDKeys  = Keys{"fileId", "id", "_id"}
	fileNameKeys      = Keys{"name", "fileName", "originalName"}
	fileSizeKeys      = Keys{"size", "bytes", "length"}
	fileSizeLabelKeys = Keys{"sizeLabel"}
	fileDateKeys      = Keys{"createdAt", "date", "uploadedAt", "createdOn"}
	sharedDateKeys    = Keys{"shared.sharedOn", "sharedOn", "createdAt", "updatedAt", "date"}
	fileTypeKeys      = Keys{"type"}
	fileMimeKeys      = Keys{"mimeType", "contentType", "mimetype"}
	fileThumbKeys     = Keys{"thumbnailUrl", "previewUrl", "thumbnail"}
	fileFavoriteKeys  = Keys{"favorite", "isFavorite", "_favorite"}
	fileURLKeys       = Keys{"fileUrl", "publicUrl", "url"}
	filePublicKeys    = Keys{"isPublic"}
	downloadURLKeys   = Keys{"data.downloadUrl", "downloadUrl", "url", "data.url"}

	ownerNameKeys     = Keys{"ownerName", "ownerEmail", "from", "fromEmail", "sharedByEmail", "sharedBy"}
	recipientNameKeys = Keys{"toEmail", "sharedWithEmail", "recipientEmail", "to"}
	pickNameKeys      = Keys{"name", "fullName", "username", "email", "address"}
)

const (
	untitled           = "Untitled"
	defaultContentType = "application/octet-stream"
)

var sizeUnit = regexp.MustCompile(`(?i)[KMGT]?i?B`)

// File normalizes one entry of an owned-file listing.
func File(n Node) models.FileSummary {
	f := models.FileSummary{
		ID:           fileIDKeys.TextOr(n, ""),
		Name:         fileNameKeys.TextOr(n, untitled),
		MimeType:     fileMimeKeys.TextOr(n, ""),
		ThumbnailURL: fileThumbKeys.TextOr(n, ""),
	}
	f.Size, f.SizeLabel = fileSize(n)
	f.CreatedAt, _ = fileDateKeys.Time(n)
	f.Kind = kind(n, f.MimeType)
	f.Favorite, _ = fileFavoriteKeys.Flag(n)
	return f
}

// Files normalizes an owned-file listing response.
func Files(env Node) []models.FileSummary {
	return mapList(List(env, "files", "list"), File)
}

// SharedFile normalizes one entry of a shared-file listing. Share rows carry
// the file id under fileId; their own id is the share's.
func SharedFile(n Node, owned bool) models.FileSummary {
	f := File(n)
	f.ID = sharedFileIDKeys.TextOr(n, "")
	f.CreatedAt, _ = sharedDateKeys.Time(n)
	info := &models.ShareInfo{
		Owner:     owner(n),
		Recipient: recipient(n),
		Owned:     owned,
	}
	info.SharedOn = f.CreatedAt
	if v, ok := (Keys{"shared.owned"}).Flag(n); ok {
		info.Owned = v
	}
	f.Shared = info
	return f
}

// SharedFiles normalizes a shared-with-me or shared-by-me listing.
func SharedFiles(env Node, owned bool) []models.FileSummary {
	return mapList(List(env, "list", "files", "shares"), func(n Node) models.FileSummary {
		return SharedFile(n, owned)
	})
}

// Share normalizes the response of sharing a file.
func Share(env Node) models.ShareRecord {
	n := Payload(env)
	r := models.ShareRecord{
		FileID:      sharedFileIDKeys.TextOr(n, ""),
		Owner:       owner(n),
		Recipient:   recipient(n),
		ContentType: Keys{"contentType", "mimeType"}.TextOr(n, defaultContentType),
	}
	r.SharedOn, _ = sharedDateKeys.Time(n)
	return r
}

// FileDetail normalizes a single-file view response. fallbackID is used when
// the payload carries no id.
func FileDetail(env Node, fallbackID string) models.FileDetail {
	n := Payload(env)
	if file := n.Get("file"); file.IsObject() {
		n = file
	}
	d := models.FileDetail{FileSummary: File(n)}
	if !d.HasID() {
		d.ID = fallbackID
	}
	if d.MimeType == "" {
		if t, ok := fileTypeKeys.Text(n); ok && strings.Contains(t, "/") {
			d.MimeType = t
		}
	}
	d.FileURL = fileURLKeys.TextOr(n, "")
	if v, ok := filePublicKeys.Flag(n); ok {
		d.IsPublic = v
	} else {
		_, d.IsPublic = Keys{"fileUrl", "publicUrl"}.In(n)
	}
	return d
}

// DownloadURL extracts a signed download link.
func DownloadURL(env Node) string {
	return downloadURLKeys.TextOr(env, "")
}

// Quota normalizes a quota response.
func Quota(env Node) models.QuotaInfo {
	n := Payload(env)
	var q models.QuotaInfo
	if used, ok := (Keys{"usedFiles", "filesUsed", "used", "count", "current"}).Number(n); ok {
		q.Used = roundHalfUp(used)
	}
	if limit, ok := (Keys{"fileLimit", "maxFiles", "limit", "totalFiles"}).Number(n); ok {
		l := roundHalfUp(limit)
		q.Limit = &l
	}
	return q
}

func fileSize(n Node) (int64, string) {
	label := fileSizeLabelKeys.TextOr(n, "")
	v, ok := fileSizeKeys.In(n)
	if !ok {
		return 0, label
	}
	if s, isStr := v.Raw().(string); isStr && label == "" {
		if _, numeric := v.Number(); !numeric && sizeUnit.MatchString(s) {
			return 0, strings.TrimSpace(s)
		}
	}
	if f, ok := v.Number(); ok && f > 0 {
		return roundHalfUp(f), label
	}
	return 0, label
}

func kind(n Node, mime string) models.MediaKind {
	if t, ok := fileTypeKeys.Text(n); ok {
		if strings.Contains(t, "/") {
			return models.KindFromMIME(t)
		}
		return models.ParseKind(t)
	}
	return models.KindFromMIME(mime)
}

func owner(n Node) string {
	if s, ok := (Keys{"shared.owner"}).Text(n); ok {
		return s
	}
	if s := pickName(n.Get("owner")); s != "" {
		return s
	}
	return ownerNameKeys.TextOr(n, "")
}

func recipient(n Node) string {
	if s, ok := (Keys{"shared.recipient"}).Text(n); ok {
		return s
	}
	for _, p := range []string{"recipient", "to"} {
		if s := pickName(n.Get(p)); s != "" {
			return s
		}
	}
	return recipientNameKeys.TextOr(n, "")
}

// pickName reads a person reference that may be a bare string or an object.
func pickName(n Node) string {
	if n.IsObject() {
		return pickNameKeys.TextOr(n, "")
	}
	if s, ok := n.Raw().(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func mapList[T any](items []Node, fn func(Node) T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
