package domain

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
)

// The handlers rely on errors.Is to tell the failure kinds apart, so no
// two sentinels may alias each other.
func TestSentinelErrorsAreDistinct(t *testing.T) {
	RegisterTestingT(t)

	sentinels := []error{
		ErrTodoNotFound,
		ErrUserNotFound,
		ErrAccessDenied,
		ErrTitleRequired,
		ErrInvalidCursor,
		ErrEmailTaken,
		ErrInvalidCredentials,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				Expect(errors.Is(a, b)).To(BeTrue())
				continue
			}

			Expect(errors.Is(a, b)).To(BeFalse(), "%v must not match %v", a, b)
		}
	}
}
