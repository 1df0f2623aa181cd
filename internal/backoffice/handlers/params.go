package handlers

import (
	"net/http"
	"strconv"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// idParam reads a numeric path parameter. A malformed id answers 404.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": msgNotFound})
		return 0, false
	}
	return uint(id), true
}

// uuidParam reads a worker UUID path parameter. A malformed value answers
// 404.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": msgNotFound})
		return uuid.Nil, false
	}
	return id, true
}

// invalid answers 422 for form values that could not be converted.
func invalid(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": msgInvalid, "errors": fieldErrors(err)})
}

// methodOverride dispatches POST requests carrying a _method field, which is
// how multipart forms issue updates and deletes.
func methodOverride(routes map[string]gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.PostForm("_method")
		if method == http.MethodPatch {
			method = http.MethodPut
		}
		handler, ok := routes[method]
		if !ok {
			c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"message": "method not allowed"})
			return
		}
		handler(c)
	}
}

func parseWorkerUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, e.NewValidationError("worker_uuid", "must be a valid UUID")
	}
	return id, nil
}
