package journal

import (
	"context"
	"fmt"

	"github.com/radif/mediarelay/internal/media"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Store is the persistence the Service needs. *Repository satisfies it.
type Store interface {
	Insert(ctx context.Context, a *Attempt) error
	Recent(ctx context.Context, limit int) ([]Attempt, error)
}

// Service turns relay results into journal rows.
type Service struct {
	store Store
}

// NewService creates a new journal Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Record persists the outcome of one relay call. uploadErr is the value the
// Uploader returned; nil means the media server accepted the file.
func (s *Service) Record(ctx context.Context, file media.UploadRequest, target media.Target, requestedBy string, uploadErr error) (*Attempt, error) {
	a := &Attempt{
		Group:        target.Group,
		Filename:     target.Filename,
		OriginalName: file.Name,
		ContentType:  file.ContentType,
		SizeBytes:    file.Size,
		Outcome:      OutcomeSuccess,
		RequestedBy:  requestedBy,
	}
	if uploadErr != nil {
		a.Outcome = media.KindOf(uploadErr).String()
		msg := uploadErr.Error()
		a.Error = &msg
		if code := media.StatusCodeOf(uploadErr); code != 0 {
			a.StatusCode = &code
		}
	}

	if err := s.store.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}
	return a, nil
}

// Recent lists the latest attempts. limit is clamped to [1, MaxLimit]; zero or
// negative selects DefaultLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return s.store.Recent(ctx, limit)
}
