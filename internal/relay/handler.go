// Package relay exposes the upload relay over HTTP: it spools the inbound
// multipart file to disk, hands it to the media Uploader and reports the outcome.
package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/radif/mediarelay/internal/journal"
	"github.com/radif/mediarelay/internal/media"
	"github.com/radif/mediarelay/internal/middleware"
	"github.com/radif/mediarelay/internal/response"
	"github.com/radif/mediarelay/pkg/logger"
)

const (
	resourceField = "resource"
	filenameField = "filename"

	// maxMemory is how much of a multipart body net/http keeps in memory before spilling to disk.
	maxMemory = 32 << 20
	// maxRequestBytes leaves room for multipart framing around the largest allowed file.
	maxRequestBytes = media.MaxFileSizeBytes + 1<<20
)

// Uploader forwards one file to the media server.
type Uploader interface {
	Upload(file media.UploadRequest, filename, group string) error
}

// Journal records relay attempts. It is optional.
type Journal interface {
	Record(ctx context.Context, file media.UploadRequest, target media.Target, requestedBy string, uploadErr error) (*journal.Attempt, error)
	Recent(ctx context.Context, limit int) ([]journal.Attempt, error)
}

// Handler holds HTTP handlers for relay endpoints.
type Handler struct {
	uploader Uploader
	journal  Journal
	tempDir  string
}

// NewHandler creates a new relay Handler. j may be nil to disable the journal;
// tempDir "" uses the OS default.
func NewHandler(uploader Uploader, j Journal, tempDir string) *Handler {
	return &Handler{uploader: uploader, journal: j, tempDir: tempDir}
}

type uploadData struct {
	Group    string `json:"group"    example:"pets"`
	Filename string `json:"filename" example:"cat1"`
}

// Upload godoc
//
//	@Summary		Relay an image upload
//	@Description	Validates the image (jpg, jpeg, png, gif, bmp, tiff; at most 100MB) and forwards it to the media server under the given group.
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			group		path		string	true	"Target group"
//	@Param			resource	formData	file	true	"Image file"
//	@Param			filename	formData	string	true	"Stored filename"
//	@Success		200			{object}	response.Envelope{data=uploadData}
//	@Failure		400			{object}	response.Envelope
//	@Failure		401			{object}	response.Envelope
//	@Failure		413			{object}	response.Envelope
//	@Failure		502			{object}	response.Envelope
//	@Router			/upload/{group} [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, &media.Error{Kind: media.KindFileTooLarge})
			return
		}
		response.BadRequest(w, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, cleanup, err := h.spool(r)
	if err != nil {
		logger.Log.Error().Err(err).Msg("relay: spool upload")
		response.InternalError(w)
		return
	}
	defer cleanup()

	target := media.Target{
		Filename: r.FormValue(filenameField),
		Group:    chi.URLParam(r, "group"),
	}

	uploadErr := h.uploader.Upload(file, target.Filename, target.Group)
	h.record(r, file, target, uploadErr)

	if uploadErr != nil {
		writeFailure(w, uploadErr)
		return
	}
	response.OK(w, uploadData{Group: target.Group, Filename: target.Filename})
}

// ListUploads godoc
//
//	@Summary		Recent relay attempts
//	@Description	Lists the newest relay attempts from the journal. Returns 404 when the journal is disabled.
//	@Tags			uploads
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Maximum entries (default 20, max 100)"
//	@Success		200		{object}	response.Envelope{data=[]journal.Attempt}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/uploads [get]
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		response.NotFound(w, "upload journal is disabled")
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			response.BadRequest(w, "limit must be an integer")
			return
		}
		limit = n
	}

	attempts, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		logger.Log.Error().Err(err).Msg("relay: list attempts")
		response.InternalError(w)
		return
	}
	if attempts == nil {
		attempts = []journal.Attempt{}
	}
	response.OK(w, attempts)
}

// spool copies the resource part to a temp file the Uploader can read. A
// request without a file yields an UploadRequest with no TempPath.
func (h *Handler) spool(r *http.Request) (media.UploadRequest, func(), error) {
	noop := func() {}

	src, header, err := r.FormFile(resourceField)
	if errors.Is(err, http.ErrMissingFile) {
		return media.UploadRequest{}, noop, nil
	}
	if err != nil {
		return media.UploadRequest{}, noop, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(h.tempDir, "relay-*")
	if err != nil {
		return media.UploadRequest{}, noop, err
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		cleanup()
		return media.UploadRequest{}, noop, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return media.UploadRequest{}, noop, err
	}

	return media.UploadRequest{
		TempPath:    tmp.Name(),
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, cleanup, nil
}

// record writes the attempt to the journal. Journal failures never change the relay result.
func (h *Handler) record(r *http.Request, file media.UploadRequest, target media.Target, uploadErr error) {
	if h.journal == nil {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	if _, err := h.journal.Record(ctx, file, target, middleware.Subject(ctx), uploadErr); err != nil {
		logger.Log.Error().Err(err).Str("group", target.Group).Msg("relay: journal attempt")
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	kind := media.KindOf(err)
	response.Fail(w, StatusFor(kind), kind.String(), err.Error())
}

// StatusFor maps a media failure kind to the relay's HTTP status.
func StatusFor(kind media.Kind) int {
	switch kind {
	case media.KindNoFileSelected, media.KindInvalidFileType, media.KindMissingTarget:
		return http.StatusBadRequest
	case media.KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case media.KindTransportError, media.KindRemoteRejected:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
