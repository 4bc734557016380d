package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication and authorization errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrForbidden        = fmt.Errorf("permission denied")

	// Entity errors
	ErrNotFound         = fmt.Errorf("not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrSongNotFound     = fmt.Errorf("song not found")
	ErrUserNotFound     = fmt.Errorf("user not found")
	ErrUsernameTaken    = fmt.Errorf("username already taken")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// Import errors
	ErrImportFailed = fmt.Errorf("import failed")
)
