package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// RequesterHeader names the header carrying the requesting user's id.
// Authentication beyond this identity claim is out of scope; ownership is
// enforced per task in the service layer.
const RequesterHeader = "X-User-ID"

// RequesterIdentity extracts the requester's user id into the request
// context under "requester_id".
func RequesterIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(RequesterHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "missing_requester",
				"message": RequesterHeader + " header is required",
			})
			return
		}

		id, err := uuid.FromString(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_requester",
				"message": RequesterHeader + " must be a valid UUID",
			})
			return
		}

		c.Set("requester_id", id)
		c.Next()
	}
}
