// Package share implements the copy and share actions of the detail view.
package share

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/justyntemme/poemario/internal/route"
	"github.com/justyntemme/poemario/pkg/models"
)

// ErrUnsupported is returned when the platform has no share capability
var ErrUnsupported = errors.New("share: not supported on this platform")

// Clipboard writes text to a clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// Sharer hands a link to the platform share facility
type Sharer interface {
	Available() bool
	Share(title, text, url string) error
}

// Outcome describes what a share action did
type Outcome int

const (
	// Shared means the platform share facility was invoked
	Shared Outcome = iota
	// LinkCopied means the deep link was copied instead
	LinkCopied
)

func (o Outcome) String() string {
	switch o {
	case Shared:
		return "shared"
	case LinkCopied:
		return "link copied"
	default:
		return "unknown"
	}
}

// Service runs copy and share for poems
type Service struct {
	clipboard Clipboard
	sharer    Sharer
	baseURL   string
	logger    *zap.Logger
}

// NewService creates a service. sharer may be nil.
func NewService(clip Clipboard, sharer Sharer, baseURL string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{clipboard: clip, sharer: sharer, baseURL: baseURL, logger: logger}
}

// Link returns the deep link for p
func (s *Service) Link(p models.Poem) string {
	return route.Link(s.baseURL, p.ID)
}

// Copy puts the poem's title, meta line and body on the clipboard
func (s *Service) Copy(p models.Poem) error {
	if err := s.clipboard.WriteAll(p.CopyText()); err != nil {
		s.logger.Warn("copy failed", zap.String("id", p.ID), zap.Error(err))
		return fmt.Errorf("copy: %w", err)
	}
	s.logger.Debug("poem copied", zap.String("id", p.ID))
	return nil
}

// Share invokes the platform share facility when there is one and
// otherwise copies the poem's deep link.
func (s *Service) Share(p models.Poem) (Outcome, error) {
	link := s.Link(p)

	if s.sharer != nil && s.sharer.Available() {
		text := p.Title + " — " + p.Meta()
		if err := s.sharer.Share(p.Title, text, link); err != nil {
			s.logger.Warn("share failed", zap.String("id", p.ID), zap.Error(err))
			return Shared, fmt.Errorf("share: %w", err)
		}
		return Shared, nil
	}

	if err := s.clipboard.WriteAll(link); err != nil {
		s.logger.Warn("copying link failed", zap.String("id", p.ID), zap.Error(err))
		return LinkCopied, fmt.Errorf("copy link: %w", err)
	}
	return LinkCopied, nil
}
