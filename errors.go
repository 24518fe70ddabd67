package dtree

// Error represents an error found growing or using a tree
type Error string

const (
	// ErrInvalidTarget is returned when the target feature index is outside
	// the catalog or refers to a continuous feature.
	ErrInvalidTarget = Error("invalid target feature")
	// ErrAlreadyRunning is returned when a Builder is used while it is
	// already growing a tree.
	ErrAlreadyRunning = Error("builder is already running")
	// ErrEmptyValidationSet is returned when validating over no samples.
	ErrEmptyValidationSet = Error("no samples to validate")
	// ErrMaskMismatch is returned when a mask does not have an entry per sample.
	ErrMaskMismatch = Error("mask length does not match the number of samples")
	// ErrEmptyTrainingSet is returned when growing a tree from no samples.
	ErrEmptyTrainingSet = Error("no samples to grow a tree from")
	// ErrSampleMismatch is returned when samples do not have a value for every
	// feature the tree or the catalog needs.
	ErrSampleMismatch = Error("samples do not match the features")
)

func (e Error) Error() string {
	return string(e)
}
