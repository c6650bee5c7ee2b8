package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a whole forward: connect, body transfer and response headers.
const DefaultTimeout = 30 * time.Second

const (
	resourceField = "resource"
	filenameField = "filename"

	defaultContentType = "application/octet-stream"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Uploader forwards validated files to the remote media server.
// It holds no mutable state and is safe for concurrent use.
type Uploader struct {
	endpoint Endpoint
	client   Doer
	timeout  time.Duration
	log      zerolog.Logger
}

// Option customises an Uploader.
type Option func(*Uploader)

// WithHTTPClient replaces the transport used for the forward request.
func WithHTTPClient(c Doer) Option {
	return func(u *Uploader) { u.client = c }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(u *Uploader) { u.timeout = d }
}

// WithLogger sets the logger used for forward diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(u *Uploader) { u.log = l }
}

// NewUploader creates an Uploader bound to endpoint.
func NewUploader(endpoint Endpoint, opts ...Option) *Uploader {
	u := &Uploader{
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.client == nil {
		u.client = &http.Client{Timeout: u.timeout}
	}
	return u
}

// Upload validates file and, if it passes, POSTs it to BaseURL+group as
// multipart/form-data with the target filename. Exactly one request is sent;
// nil means the remote server answered 200.
func (u *Uploader) Upload(file UploadRequest, filename, group string) error {
	if err := Validate(file); err != nil {
		return err
	}
	if filename == "" || group == "" {
		return &Error{Kind: KindMissingTarget}
	}

	log := u.log.With().
		Str("group", group).
		Str("filename", filename).
		Int64("size", file.Size).
		Logger()

	// group is appended as-is; callers pass a path-safe segment.
	target := u.endpoint.BaseURL + group

	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	req, body, err := u.newRequest(ctx, target, file, filename)
	if err != nil {
		log.Warn().Err(err).Msg("build upload request")
		return transportError(err)
	}
	defer body.Close()

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("upload transport failed")
		return transportError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("upload rejected by media server")
		return &Error{Kind: KindRemoteRejected, StatusCode: resp.StatusCode}
	}

	log.Debug().Dur("elapsed", time.Since(start)).Msg("upload forwarded")
	return nil
}

// newRequest builds the multipart POST. The body streams the temp file between
// a pre-rendered part header and the trailing filename field, so nothing is
// buffered beyond the multipart framing and Content-Length is exact.
func (u *Uploader) newRequest(ctx context.Context, target string, file UploadRequest, filename string) (*http.Request, *fileBody, error) {
	f, err := os.Open(file.TempPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open temp file: %w", err)
	}
	body := &fileBody{file: f}

	info, err := f.Stat()
	if err != nil {
		body.Close()
		return nil, nil, fmt.Errorf("stat temp file: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if _, err := mw.CreatePart(resourceHeader(file)); err != nil {
		body.Close()
		return nil, nil, fmt.Errorf("write resource part header: %w", err)
	}
	head := bytes.Clone(buf.Bytes())
	buf.Reset()

	// The file part ends at the next boundary, which WriteField emits.
	if err := mw.WriteField(filenameField, filename); err != nil {
		body.Close()
		return nil, nil, fmt.Errorf("write filename field: %w", err)
	}
	if err := mw.Close(); err != nil {
		body.Close()
		return nil, nil, fmt.Errorf("close multipart writer: %w", err)
	}
	tail := buf.Bytes()

	body.Reader = io.MultiReader(bytes.NewReader(head), f, bytes.NewReader(tail))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		body.Close()
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = int64(len(head)) + info.Size() + int64(len(tail))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(u.endpoint.Username, u.endpoint.Password)

	return req, body, nil
}

func resourceHeader(file UploadRequest) textproto.MIMEHeader {
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		resourceField, quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", contentType)
	return h
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// fileBody closes the temp file once, whichever of the transport or Upload gets there first.
type fileBody struct {
	io.Reader
	file *os.File
	once sync.Once
}

func (b *fileBody) Close() error {
	var err error
	b.once.Do(func() { err = b.file.Close() })
	return err
}
