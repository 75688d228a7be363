package web

import (
	"errors"
	"fmt"
)

var errRange = errors.New("from must be before to")

func errBadDate(param, raw string) error {
	return fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", param, raw)
}
