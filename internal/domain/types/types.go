package types

type ServiceMode string

// Web Client - serves the browser screens and talks to the courier backend
const (
	WebClient ServiceMode = "web-client"
)

// SessionStorage selects where the session slots are persisted.
type SessionStorage string

const (
	MemoryStorage   SessionStorage = "memory"
	RedisStorage    SessionStorage = "redis"
	PostgresStorage SessionStorage = "postgres"
)
