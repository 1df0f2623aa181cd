package handlers

import (
	"errors"
	"fmt"
	"net/http"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	msgInvalid  = "Los datos proporcionados no son válidos."
	msgNotFound = "El recurso solicitado no existe."
	msgInternal = "Ocurrió un error inesperado."
)

// mapServiceError maps domain or repository errors to gRPC status codes.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrConstraint):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, fmt.Sprintf("internal server error: %v", err))
	}
}

// fieldErrors returns the per-field messages carried by err, if any.
func fieldErrors(err error) map[string]string {
	if v, ok := e.AsValidation(err); ok {
		return v.Fields
	}
	return map[string]string{}
}

// abort answers a read request that failed. The HTTP status follows the
// gRPC code of the error.
func (h *Handler) abort(c *gin.Context, err error) {
	code := status.Code(mapServiceError(err))
	httpStatus := runtime.HTTPStatusFromCode(code)
	switch code {
	case codes.NotFound:
		c.AbortWithStatusJSON(httpStatus, gin.H{"message": msgNotFound})
	case codes.InvalidArgument:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": msgInvalid, "errors": fieldErrors(err)})
	case codes.Internal:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(httpStatus, gin.H{"message": msgInternal})
	default:
		c.AbortWithStatusJSON(httpStatus, gin.H{"message": err.Error()})
	}
}

// fail answers a mutation that failed. Validation errors and missing
// resources are reported directly; anything else is logged and sent back
// with an error flash carrying message.
func (h *Handler) fail(c *gin.Context, err error, back, message string) {
	switch status.Code(mapServiceError(err)) {
	case codes.InvalidArgument:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": msgInvalid, "errors": fieldErrors(err)})
	case codes.NotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	default:
		h.logger.Error(message, zap.String("path", c.Request.URL.Path), zap.Error(err))
		redirect(c, back, Flash{Message: message, Type: FlashError})
	}
}
