package bmap

var (
	// ErrEmptyImage is returned when asked to describe a zero-byte image.
	ErrEmptyImage = &BuildError{"image size is zero"}
	// ErrUnresolvableBlockSize is returned when the free pool is empty and a
	// block size cannot be resolved from it.
	ErrUnresolvableBlockSize = &BuildError{"no free ranges to resolve a block size from"}
)

type BuildError struct {
	Msg string
}

func (e *BuildError) Error() string {
	return e.Msg
}

func (e *BuildError) Is(target error) bool {
	if targetErr, ok := target.(*BuildError); ok {
		return e.Msg == targetErr.Msg
	}
	return false
}

// InvariantError reports a logic defect in block-size resolution rather than
// a user-facing failure; it should never occur on a well-formed scan.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "internal invariant violated: " + e.Msg
}
