package clipboard

import (
	"errors"
	"testing"
)

func TestUnsupportedServiceReportsUnavailable(t *testing.T) {
	service := &Service{unsupported: true}
	if err := service.Copy("project/"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
