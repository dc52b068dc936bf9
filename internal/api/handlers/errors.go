package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// statusFor maps a failure kind to the HTTP status returned to the browser
func statusFor(err error) int {
	switch errors.KindOf(err) {
	case errors.KindNone:
		return http.StatusOK
	case errors.KindNotFound, errors.KindNoCart:
		return http.StatusNotFound
	case errors.KindValidation, errors.KindUserErrors:
		return http.StatusUnprocessableEntity
	case errors.KindTransport, errors.KindStatus, errors.KindGraphQL, errors.KindMalformed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	kind := errors.KindOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path), zap.String("kind", string(kind)), zap.Error(err))
	}

	body := gin.H{"error": err.Error(), "kind": kind}
	var userErrs *errors.ErrUserErrors
	if stderrors.As(err, &userErrs) {
		body["user_errors"] = userErrs.Errors
	}
	c.JSON(status, body)
}
