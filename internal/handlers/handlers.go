package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Naya-01/PAE/internal/middleware/auth"
	"github.com/Naya-01/PAE/internal/response"
	"github.com/Naya-01/PAE/internal/validation"
)

// idParam parses a positive integer path parameter, answering 400 when it is not one
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := validation.ParseID(c.Param(name), name)
	if err != nil {
		response.BadRequestError(c, err.Error())
		return 0, false
	}
	return id, true
}

// caller returns the authenticated member, answering 401 when there is none
func caller(c *gin.Context) (int, bool) {
	memberID, ok := auth.MemberID(c)
	if !ok {
		response.UnauthorizedError(c, "authentication required")
		return 0, false
	}
	return memberID, true
}

// requireOfferor answers 403 unless memberID offers the object
func requireOfferor(c *gin.Context, offerorID, memberID int) bool {
	if offerorID != memberID {
		response.ForbiddenError(c, "only the offeror can do this")
		return false
	}
	return true
}
