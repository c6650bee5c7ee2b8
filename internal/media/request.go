// Package media validates incoming image uploads and forwards them to the
// remote media server as multipart form submissions.
package media

// MaxFileSizeBytes is the inclusive upper bound on a declared upload size (100 MiB).
const MaxFileSizeBytes = int64(100 * 1024 * 1024)

// allowedExtensions is the image extension allow-list, lower case, without the dot.
var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"bmp":  {},
	"tiff": {},
}

// UploadRequest describes a file already received by the web layer and
// spooled to disk. The relay only reads it; the caller owns the temp file.
type UploadRequest struct {
	TempPath    string // transient on-disk location; empty means no file was selected
	Name        string // original client filename
	ContentType string // declared MIME type
	Size        int64  // declared size in bytes
}

// Target names where a validated file should be stored remotely.
type Target struct {
	Filename string
	Group    string
}

// Endpoint is the remote media server configuration. It is built once at
// startup and never mutated, so one value may be shared by concurrent uploads.
type Endpoint struct {
	BaseURL  string
	Username string
	Password string
}
