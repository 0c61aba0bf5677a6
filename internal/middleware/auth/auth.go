// Package auth provides the gin middleware resolving the calling member
package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/response"
)

const memberIDKey = "member_id"

// Verifier resolves a token to a member id
type Verifier interface {
	Verify(token string) (int, error)
}

// Authorize rejects requests without a valid Authorization token and stores
// the caller's member id in the context. A "Bearer " prefix is accepted.
func Authorize(verifier Verifier) gin.HandlerFunc {
	log := logger.HTTP()

	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			response.UnauthorizedError(c, "missing authorization token")
			c.Abort()
			return
		}

		memberID, err := verifier.Verify(token)
		if err != nil {
			log.Warn("Rejected token", "path", c.FullPath(), "error", err)
			response.UnauthorizedError(c, "invalid authorization token")
			c.Abort()
			return
		}

		c.Set(memberIDKey, memberID)
		c.Next()
	}
}

// MemberID returns the member id stored by Authorize
func MemberID(c *gin.Context) (int, bool) {
	memberID, ok := c.Get(memberIDKey)
	if !ok {
		return 0, false
	}
	id, ok := memberID.(int)
	return id, ok
}

// SetMemberID stores memberID as the caller
func SetMemberID(c *gin.Context, memberID int) {
	c.Set(memberIDKey, memberID)
}
