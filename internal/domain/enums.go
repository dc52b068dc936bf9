package domain

// StorageBackend selects where the client-held cart identifier is persisted
type StorageBackend string

const (
	// COOKIE - the browser keeps sf_cart_id itself
	StorageCookie StorageBackend = "cookie"
	// MEMORY - process memory keyed by session; lost on restart
	StorageMemory StorageBackend = "memory"
	// REDIS - keyed by session in Redis
	StorageRedis StorageBackend = "redis"
	// POSTGRES - client_storage table keyed by session
	StoragePostgres StorageBackend = "postgres"
)

// IsValid checks if the storage backend is known
func (s StorageBackend) IsValid() bool {
	switch s {
	case StorageCookie, StorageMemory, StorageRedis, StoragePostgres:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (s StorageBackend) String() string {
	return string(s)
}

// Event types dispatched on page documents
const (
	EventClick = "click"
)
