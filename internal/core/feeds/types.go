package feeds

import (
	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/pagination"
)

// Page is one page of annotated posts
type Page = pagination.Result[*interactions.PostWithInteraction]

// Config bounds the page sizes a caller may request
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig returns the page size bounds used when none are configured
func DefaultConfig() Config {
	return Config{
		DefaultPageSize: pagination.DefaultPageSize,
		MaxPageSize:     pagination.MaxPageSize,
	}
}
