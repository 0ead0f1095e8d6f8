package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/devconnect/internal/api/middleware"
	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/utils"
)

const serverErrorMessage = "Server Error"

type APIError struct {
	Code    utils.Code         `json:"code"`
	Message string             `json:"message"`
	Errors  []utils.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"msg"`
}

// writeError renders err for the client. Internal failures get a generic
// message; their cause is attached to the context for the request log.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) && status < http.StatusInternalServerError {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
			Errors:  ae.Fields,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: serverErrorMessage,
	})
}

func requireIdentity(c *gin.Context) (auth.Identity, bool) {
	if id, ok := middleware.Identity(c); ok {
		return id, true
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "no token, authorization denied", nil))
	return auth.Identity{}, false
}

// bindJSON decodes the body into dst. An empty body decodes as {} and is left
// to the service's validation. A field of the wrong type is reported by name
// together with every other field the partially decoded body fails.
func bindJSON(c *gin.Context, op string, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fields := []utils.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type),
		}}
		for _, f := range utils.ValidateStruct(dst) {
			if f.Field != typeErr.Field {
				fields = append(fields, f)
			}
		}
		writeError(c, utils.Invalid(op, fields))
		return false
	}

	writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
	return false
}
