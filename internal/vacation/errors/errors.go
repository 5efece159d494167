package errors

import (
	"fmt"
)

var (
	ErrNotFound        = fmt.Errorf("not found")
	ErrUnauthorized    = fmt.Errorf("unauthorized")
	ErrConflict        = fmt.Errorf("vacation dates conflict")
	ErrBusinessRule    = fmt.Errorf("business rule violation")
	ErrVersionConflict = fmt.Errorf("concurrent modification")
	ErrDuplicateEmail  = fmt.Errorf("duplicate email")
)
