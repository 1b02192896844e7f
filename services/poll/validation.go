package poll

import (
	"fmt"
	"unicode/utf8"

	"github.com/tech-arch1tect/greenpoll/apperror"
)

func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		if min == 0 {
			return apperror.Validation(fmt.Sprintf("%s must be at most %d characters", field, max))
		}
		return apperror.Validation(fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
	return nil
}
