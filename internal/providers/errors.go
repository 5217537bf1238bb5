package providers

import "errors"

// Gateway errors.
var (
	// Configuration errors
	ErrInvalidProvider  = errors.New("invalid or unsupported storage provider")
	ErrMissingEndpoint  = errors.New("storage endpoint is required")
	ErrMissingBucket    = errors.New("storage bucket name is required")
	ErrMissingAccessKey = errors.New("storage access key is required")
	ErrMissingSecretKey = errors.New("storage secret key is required")

	// Lifecycle errors
	ErrAuthorization  = errors.New("failed to issue storage authorization")
	ErrCommit         = errors.New("failed to commit multipart upload")
	ErrObjectNotFound = errors.New("object not found")

	// Connection errors
	ErrConnectionFailed = errors.New("failed to connect to storage provider")
	ErrBucketNotFound   = errors.New("storage bucket not found")
)

// StorageError wraps a backend error with the provider, operation and key it
// occurred on.
type StorageError struct {
	Provider  string
	Operation string
	Key       string
	Err       error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return "storage " + e.Provider + " " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
	}
	return "storage " + e.Provider + " " + e.Operation + " failed: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a StorageError with context.
func NewStorageError(provider, operation, key string, err error) *StorageError {
	return &StorageError{
		Provider:  provider,
		Operation: operation,
		Key:       key,
		Err:       err,
	}
}
