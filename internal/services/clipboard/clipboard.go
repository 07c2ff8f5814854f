// Package clipboard copies rendered trees to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when the platform offers no clipboard utility.
var ErrUnavailable = errors.New("system clipboard unavailable")

// Copier copies textual data to the clipboard.
type Copier interface {
	Copy(text string) error
}

// Service copies through github.com/atotto/clipboard.
type Service struct {
	unsupported bool
}

// NewService returns a Service bound to the system clipboard.
func NewService() *Service {
	return &Service{unsupported: clipboard.Unsupported}
}

// Copy replaces the clipboard content with text.
func (service *Service) Copy(text string) error {
	if service.unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
