package response

import (
	"Blips/internal/api/dto"
	"Blips/internal/pkg/util"
	"Blips/internal/service"
	"context"
	stdjson "encoding/json"
	"errors"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

const (
	Ok                  = http.StatusOK
	CreatedCode         = http.StatusCreated
	BadRequest          = http.StatusBadRequest
	Unauthorized        = http.StatusUnauthorized
	Forbidden           = http.StatusForbidden
	NotFound            = http.StatusNotFound
	PayloadTooLarge     = http.StatusRequestEntityTooLarge
	InternalServerError = http.StatusInternalServerError
	ServiceUnavailable  = http.StatusServiceUnavailable
)

const genericMessage = "Something went wrong"

// ExposeErrors puts raw error text into 500 bodies
var ExposeErrors bool

// Success 200 envelope
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Created 201 envelope
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.Response{
		Code:    CreatedCode,
		Message: "created",
		Data:    data,
	})
}

// Fail writes an error envelope with status as both HTTP status and code
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Response{
		Code:    status,
		Message: message,
		Data:    nil,
	})
}

// Error maps err onto a status and writes the envelope
func Error(c *gin.Context, err error) {
	status, message := Resolve(err)
	if status >= InternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "err", err)
	}
	Fail(c, status, message)
}

// Resolve picks the HTTP status and client-facing message for err
func Resolve(err error) (int, string) {
	var ve *util.ValidationError
	if errors.As(err, &ve) {
		return BadRequest, ve.Error()
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return BadRequest, "Invalid parameters"
	}
	if isJSONError(err) {
		return BadRequest, "Invalid JSON"
	}

	for target, code := range service.ErrorMap {
		if errors.Is(err, target) {
			return code, target.Error()
		}
	}

	if mongoDB.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return ServiceUnavailable, "Database unavailable, please retry"
	}
	if ExposeErrors {
		return InternalServerError, err.Error()
	}
	return InternalServerError, genericMessage
}

// isJSONError covers both decoders: gin binds with encoding/json, the rest of the code uses go-json
func isJSONError(err error) bool {
	var (
		typeErr      *json.UnmarshalTypeError
		syntaxErr    *json.SyntaxError
		stdTypeErr   *stdjson.UnmarshalTypeError
		stdSyntaxErr *stdjson.SyntaxError
	)
	return errors.As(err, &typeErr) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &stdTypeErr) ||
		errors.As(err, &stdSyntaxErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF)
}
