package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskflowhq/taskflow-api/internal/constants"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/models"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"github.com/taskflowhq/taskflow-api/internal/token"
)

// RequireAuth resolves the bearer token to an active user and stores the
// user in the request context. Every operation downstream receives the
// principal explicitly; there is no ambient security context.
func RequireAuth(tokens *token.Manager, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apierrors.AbortWith(c, apierrors.Unauthenticated("authentication required"))
			return
		}

		userID, err := tokens.ResolveSessionToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apierrors.AbortWith(c, err)
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			apierrors.AbortWith(c, apierrors.Unauthenticated("authentication required"))
			return
		}

		if !user.Active {
			apierrors.AbortWith(c, apierrors.InvalidState("user account is deactivated"))
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user from the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
