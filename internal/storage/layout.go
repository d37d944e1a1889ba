package storage

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// uploadSegment is the path segment display transforms are inserted after.
const uploadSegment = "upload"

// Layout maps blob ids to object keys and public URLs.
//
// Objects live at "upload/<folder>/<id><ext>" and are served from PublicURL,
// so every URL carries an "/upload/" segment an image CDN can hook into.
type Layout struct {
	PublicURL string
	Folder    string
}

// Prefix is the key prefix shared by every blob in the folder.
func (l Layout) Prefix() string {
	return path.Join(uploadSegment, strings.Trim(l.Folder, "/")) + "/"
}

func (l Layout) Key(blobID, ext string) string {
	return l.Prefix() + blobID + ext
}

func (l Layout) URL(key string) string {
	return strings.TrimRight(l.PublicURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// newBlobKey returns a fresh object key keeping the lowercased extension of name.
func (l Layout) newBlobKey(name string) string {
	return l.Key(uuid.NewString(), strings.ToLower(filepath.Ext(name)))
}

// BlobID derives the blob identifier from a stored URL: the trailing path
// segment up to its first dot.
func BlobID(url string) string {
	segment := url
	if i := strings.LastIndex(url, "/"); i >= 0 {
		segment = url[i+1:]
	}
	if i := strings.Index(segment, "."); i >= 0 {
		segment = segment[:i]
	}
	return segment
}

// OptimizeURL inserts a display directive (e.g. "q_10,f_auto,w_1200") right
// after the first "/upload/" segment of url. URLs without that segment and
// empty directives are returned unchanged.
func OptimizeURL(url, directive string) string {
	directive = strings.Trim(directive, "/")
	if directive == "" {
		return url
	}
	marker := "/" + uploadSegment + "/"
	return strings.Replace(url, marker, marker+directive+"/", 1)
}
