package controllers

import (
	"github.com/gin-gonic/gin"

	"taskly-be/internal/apperrors"
	"taskly-be/internal/middleware"
)

// respondError hands err to the error handler middleware
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
}

// userID returns the authenticated caller. Routes using it sit behind AuthMiddleware.
func userID(c *gin.Context) (string, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authorized, token missing"))
	}
	return id, ok
}
