// Package service contains business logic for the application.
package service

import "campfire/internal/models"

// Authorize allows a mutation only when the caller owns the resource.
// Anonymous callers (id 0) are unauthorized; anyone else is forbidden.
func Authorize(callerID, ownerID uint) error {
	if callerID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	if callerID != ownerID {
		return models.NewForbiddenError("You can only change your own account")
	}
	return nil
}
