package domain

// Storage persists payloads under string keys. Get decodes into out, which
// must be a pointer.
type Storage interface {
	Set(key string, payload any) error
	Get(key string, out any) error
	Remove(key string) error
}
