package store

import "errors"

var (
	// ErrNotFound is returned when a prompt lookup, update, or delete
	// targets a record that does not exist.
	ErrNotFound = errors.New("store: prompt not found")

	// ErrAlreadyExists is returned when a create (or a relocating update)
	// targets a path that is already occupied.
	ErrAlreadyExists = errors.New("store: prompt already exists")

	// ErrTagNotFound is returned by RenameTag when no prompt carries the
	// old tag. Surfacing this instead of silently returning zero makes
	// typos visible to the caller.
	ErrTagNotFound = errors.New("store: tag not found")

	// ErrGroupNotFound is returned by RenameGroup when the source group
	// directory does not exist.
	ErrGroupNotFound = errors.New("store: group not found")

	// ErrGroupConflict is returned by RenameGroup when the target group
	// already contains at least one prompt.
	ErrGroupConflict = errors.New("store: group already exists with prompts")
)
