package panels

import "errors"

var (
	// ErrDataAccess wraps connectivity and SQL failures from a repository.
	ErrDataAccess = errors.New("panels: data access")
	// ErrNilPanel is returned when a repository receives a nil panel.
	ErrNilPanel = errors.New("panels: nil panel")
)
