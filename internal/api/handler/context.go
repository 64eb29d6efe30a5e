package handler

import (
	"context"

	"github.com/turfloop/turfloop/internal/api/middleware"
)

// GetPlayerID retrieves the authenticated player ID from the context.
// This is a convenience wrapper around middleware.GetPlayerID.
func GetPlayerID(ctx context.Context) string {
	return middleware.GetPlayerID(ctx)
}
