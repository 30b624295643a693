package args

import "errors"

var (
	ErrNotText     = errors.New("value is not convertible to an argument")
	ErrNotIterable = errors.New("value is not iterable")
	ErrNotOptional = errors.New("value is not optional")
)
