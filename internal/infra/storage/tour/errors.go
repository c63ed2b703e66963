package tour

import "errors"

var (
	// ErrTemplateNotFound is returned when a tour template does not exist
	ErrTemplateNotFound = errors.New("tour.repository: template not found")

	// ErrInstanceNotFound is returned when a tour instance does not exist
	ErrInstanceNotFound = errors.New("tour.repository: instance not found")

	// ErrBuildQuery is returned when building a SQL query fails
	ErrBuildQuery = errors.New("tour.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL query fails
	ErrExecQuery = errors.New("tour.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("tour.repository: failed to scan row")
)
