package constants

import "time"

const (
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"

	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

const (
	DefaultRequestTimeout = 10 * time.Second
	ShutdownTimeout       = 15 * time.Second
)

const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
)

const (
	LockTTL           = 5 * time.Second
	LockRetryDelay    = 50 * time.Millisecond
	LockRetryAttempts = 20
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)
