package directory

import "errors"

var (
	ErrWorkerNotFound = errors.New("worker not found in directory")
)
