package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/auth"
	"github.com/gousero-sin/LifeLogAi/internal/middleware"
	"github.com/gousero-sin/LifeLogAi/internal/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"entry not found"`
}

// SuccessResponse acknowledges a mutation without a resource body.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// requestError is a client mistake detected while reading the request.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match the format %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "hexcolor":
		return field + " must be a hex color"
	default:
		return field + " is invalid"
	}
}

// apiRequest is the framework-neutral view of an incoming request.
type apiRequest struct {
	ctx    context.Context
	userID uint
	param  func(string) string
	query  func(string) string
	// decode fills dst from the JSON body with the framework's binder. A
	// request without a body leaves dst untouched.
	decode func(dst any) error
}

// apiHandler answers a request with a status code and a JSON body.
type apiHandler func(r *apiRequest) (int, any)

// bind decodes the JSON body into dst and runs its validate tags. An empty
// body decodes as an empty object.
func (r *apiRequest) bind(dst any) error {
	if err := r.decode(dst); err != nil {
		return badRequest("invalid JSON body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return badRequest("%s", validationMessage(verrs[0]))
		}
		return badRequest("invalid request body")
	}
	return nil
}

func (r *apiRequest) pathID(name string) (uint, error) {
	id, err := strconv.ParseUint(r.param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid %s", name)
	}
	return uint(id), nil
}

func (r *apiRequest) queryInt(name string, def int) (int, error) {
	raw := strings.TrimSpace(r.query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	return v, nil
}

func (r *apiRequest) optionalQueryInt(name string) (*int, error) {
	if strings.TrimSpace(r.query(name)) == "" {
		return nil, nil
	}
	v, err := r.queryInt(name, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrEntryNotFound, http.StatusNotFound},
	{service.ErrTagNotFound, http.StatusNotFound},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrEmailTaken, http.StatusBadRequest},
	{service.ErrEntryPrivate, http.StatusBadRequest},
	{service.ErrAPIKeyMissing, http.StatusBadRequest},
	{service.ErrTagExists, http.StatusBadRequest},
	{service.ErrInvalidDepth, http.StatusBadRequest},
	{service.ErrInvalidTheme, http.StatusBadRequest},
	{service.ErrNothingToUpdate, http.StatusBadRequest},
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrEmptyQuery, http.StatusBadRequest},
	{service.ErrInvalidMonth, http.StatusBadRequest},
}

func errorStatus(err error) int {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest
	}
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// responder turns service errors into HTTP responses.
type responder struct {
	logger zerolog.Logger
}

func (h responder) fail(r *apiRequest, err error) (int, any) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Uint("user_id", r.userID).Msg("Request failed")
		return status, ErrorResponse{Error: "internal server error"}
	}
	return status, ErrorResponse{Error: err.Error()}
}

func serveGin(c *gin.Context, h apiHandler) {
	userID, _ := middleware.UserIDFromGin(c)
	status, resp := h(&apiRequest{
		ctx:    c.Request.Context(),
		userID: userID,
		param:  c.Param,
		query:  c.Query,
		decode: func(dst any) error {
			if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		},
	})
	c.JSON(status, resp)
}

func serveFiber(c *fiber.Ctx, h apiHandler) error {
	userID, _ := middleware.UserIDFromFiber(c)
	status, resp := h(&apiRequest{
		ctx:    c.UserContext(),
		userID: userID,
		param:  func(key string) string { return c.Params(key) },
		query:  func(key string) string { return c.Query(key) },
		decode: func(dst any) error {
			if len(bytes.TrimSpace(c.Body())) == 0 {
				return nil
			}
			return c.BodyParser(dst)
		},
	})
	return c.Status(status).JSON(resp)
}
