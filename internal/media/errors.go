package media

import (
	"errors"
	"fmt"
)

// Kind classifies why a validate or upload call failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoFileSelected
	KindInvalidFileType
	KindFileTooLarge
	KindMissingTarget
	KindTransportError
	KindRemoteRejected
)

var kindCodes = map[Kind]string{
	KindUnknown:         "unknown",
	KindNoFileSelected:  "no_file_selected",
	KindInvalidFileType: "invalid_file_type",
	KindFileTooLarge:    "file_too_large",
	KindMissingTarget:   "missing_target",
	KindTransportError:  "transport_error",
	KindRemoteRejected:  "remote_rejected",
}

// String returns the stable snake_case code of the kind.
func (k Kind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindUnknown]
}

// IsValidation reports whether the kind is raised before any network traffic.
func (k Kind) IsValidation() bool {
	switch k {
	case KindNoFileSelected, KindInvalidFileType, KindFileTooLarge, KindMissingTarget:
		return true
	}
	return false
}

// Error is the single failure value returned by Validate and Uploader.Upload.
// StatusCode is set only for KindRemoteRejected; Err only for KindTransportError.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNoFileSelected:
		return "No file selected!"
	case KindInvalidFileType:
		return "file type is invalid!"
	case KindFileTooLarge:
		return "file is too large! Please select file under 100MB!"
	case KindMissingTarget:
		return "filename or target group undefined"
	case KindRemoteRejected:
		return fmt.Sprintf("error: HTTP code: %d", e.StatusCode)
	case KindTransportError:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "transport error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "upload failed"
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so sentinel comparisons like
// errors.Is(err, ErrFileTooLarge) work regardless of payload.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNoFileSelected  = &Error{Kind: KindNoFileSelected}
	ErrInvalidFileType = &Error{Kind: KindInvalidFileType}
	ErrFileTooLarge    = &Error{Kind: KindFileTooLarge}
	ErrMissingTarget   = &Error{Kind: KindMissingTarget}
	ErrTransport       = &Error{Kind: KindTransportError}
	ErrRemoteRejected  = &Error{Kind: KindRemoteRejected}
)

// KindOf extracts the Kind from err. A nil error has KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusCodeOf returns the remote HTTP status carried by a KindRemoteRejected error, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransportError, Err: err}
}
