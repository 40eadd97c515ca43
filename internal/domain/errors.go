package domain

import "errors"

var (
	// ErrValidation is returned when a query carries no usable SKU/EAN code
	ErrValidation = errors.New("query has no SKU/EAN code (6+ digits)")

	// ErrNetwork is returned when every HTTP attempt for a request failed
	ErrNetwork = errors.New("network request failed")

	// ErrTLSVerification marks network failures caused by an untrusted certificate
	ErrTLSVerification = errors.New("TLS certificate verification failed")

	// ErrProductNotFound is returned when a lookup step yields no usable result
	ErrProductNotFound = errors.New("product not found")

	// ErrStoreNotFound is returned when a store id is not configured
	ErrStoreNotFound = errors.New("store not configured")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
