package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/probiller/purchase-gateway/internal/data/repos"
	"github.com/probiller/purchase-gateway/internal/domain/biller"
	"github.com/probiller/purchase-gateway/internal/domain/nextaction"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/value"
	"github.com/probiller/purchase-gateway/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondDomainError maps domain sentinels onto wire errors. Validation
// failures are the caller's fault, unknown sessions are 404, illegal
// transitions and missing next actions are conflicts. Everything else is a
// 500 so it alarms.
func RespondDomainError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		apiErr = classify(err)
	}
	RespondError(c, apiErr.Status, apiErr.Code, apiErr.Err)
}

func classify(err error) *apierr.Error {
	switch {
	case errors.Is(err, repos.ErrSessionNotFound):
		return apierr.SessionNotFound(err)
	case errors.Is(err, value.ErrInvalidEmail),
		errors.Is(err, value.ErrInvalidZip),
		errors.Is(err, value.ErrInvalidCountry),
		errors.Is(err, value.ErrInvalidBin),
		errors.Is(err, value.ErrInvalidLastFour),
		errors.Is(err, value.ErrInvalidAmount),
		errors.Is(err, value.ErrInvalidDuration),
		errors.Is(err, value.ErrInvalidID),
		errors.Is(err, value.ErrInvalidUsername),
		errors.Is(err, value.ErrInvalidPhoneNumber),
		errors.Is(err, biller.ErrUnknownBillerName):
		return apierr.BadRequest(err)
	case errors.Is(err, nextaction.ErrInvalidState),
		errors.Is(err, purchase.ErrIllegalStateTransition):
		return apierr.InvalidSessionState(err)
	default:
		return apierr.Internal(err)
	}
}
