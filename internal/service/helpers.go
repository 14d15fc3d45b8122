package service

import (
	"errors"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/idgen"
)

func newID() string {
	return idgen.NewID()
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// isNotFound reports whether err wraps domain.ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
