package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("quiz not found")
	ErrNotOwner      = errors.New("quiz not found or not yours")
	ErrForbidden     = errors.New("no permission for this quiz")
	ErrShareNotFound = errors.New("invalid link")
)

// MissingRecipientsError lists share recipients without an account.
type MissingRecipientsError struct {
	Emails []string
}

func (e *MissingRecipientsError) Error() string {
	return fmt.Sprintf("some recipients not found: %s", strings.Join(e.Emails, ", "))
}
