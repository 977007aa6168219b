package errors

import (
	"SOCIAL_server/global"
	"SOCIAL_server/schemas"
	Errors "errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Error kinds surfaced by the relation and message services
var (
	ErrValidation         = Errors.New("validation error")
	ErrDuplicateEdge      = Errors.New("duplicate edge")
	ErrInvalidReference   = Errors.New("invalid reference")
	ErrStorageUnavailable = Errors.New("storage unavailable")
	ErrQueryFailed        = Errors.New("query failed")
)

// Error carries the kind of failure, the problem (field or table) and the cause
type Error struct {
	Kind    error
	Problem string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return "Problem: " + e.Problem + "; Error: " + e.Kind.Error()
	}
	return "Problem: " + e.Problem + "; Error: " + e.Cause.Error()
}

// Is matches the error kind so callers can use errors.Is(err, ErrX)
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation builds a validation error for a missing or malformed field
func Validation(problem string, description string) error {
	return &Error{Kind: ErrValidation, Problem: problem, Cause: Errors.New(description)}
}

// DuplicateEdge builds the error returned when a follow edge already exists
func DuplicateEdge(followerID string, followedID string) error {
	return &Error{Kind: ErrDuplicateEdge, Problem: "follow", Cause: Errors.New(followerID + " already follows " + followedID)}
}

// InvalidReference builds the error returned when a referenced user is unknown
func InvalidReference(problem string, id string) error {
	return &Error{Kind: ErrInvalidReference, Problem: problem, Cause: Errors.New("unknown user " + id)}
}

// StorageUnavailable wraps a failed store call
func StorageUnavailable(problem string, err error) error {
	return &Error{Kind: ErrStorageUnavailable, Problem: problem, Cause: err}
}

// QueryFailed wraps a failed sub-lookup of a composite query
func QueryFailed(problem string, err error) error {
	return &Error{Kind: ErrQueryFailed, Problem: problem, Cause: err}
}

// Is reports whether any error in err's chain matches target
func Is(err error, target error) bool {
	return Errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return Errors.As(err, target)
}

// HandleFatalError handles global error
func HandleFatalError(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// HandleComplexError handles complex errors and logs
func HandleComplexError(problem string, err string) error {
	global.MonitorLogger.WithFields(logrus.Fields{"problem": problem}).Warn("Complex error; " + err)
	return Errors.New("Problem: " + problem + "; Error: " + err)
}

// HandleServiceError maps a service failure onto the matching response
func HandleServiceError(c *fiber.Ctx, err error) error {
	var serviceErr *Error
	if !As(err, &serviceErr) {
		return HandleInternalError(c, "unknown", err.Error())
	}

	switch {
	case Is(err, ErrValidation):
		return HandleBadRequestError(c, serviceErr.Problem, serviceErr.Cause.Error())
	case Is(err, ErrInvalidReference):
		return HandleNotFoundError(c, serviceErr.Problem, "not found")
	case Is(err, ErrDuplicateEdge):
		return HandleConflictError(c, serviceErr.Problem, "already exists")
	default:
		return HandleInternalError(c, serviceErr.Problem, serviceErr.Error())
	}
}

// HandleInternalError handles internal errors (things that should never happen in normal circumstances)
func HandleInternalError(c *fiber.Ctx, problem string, err string) error {
	global.InternalLogger.WithFields(logrus.Fields{
		"ip":      c.IP(),
		"path":    c.Path(),
		"problem": problem,
	}).Error(err)
	return c.Status(fiber.StatusInternalServerError).JSON(schemas.ErrorResponse{
		Error:   true,
		Problem: problem,
	})
}

// HandleBadRequestError handles bad request errors (client error that is harmless to server and state)
func HandleBadRequestError(c *fiber.Ctx, problem string, description string) error {
	global.MonitorLogger.WithFields(logrus.Fields{"problem": problem}).Info("Bad Request; Description: " + description)
	return c.Status(fiber.StatusBadRequest).JSON(schemas.ErrorResponse{
		Error:       true,
		Problem:     problem,
		Description: description,
	})
}

// HandleNotFoundError handles requests referencing unknown resources
func HandleNotFoundError(c *fiber.Ctx, problem string, description string) error {
	return c.Status(fiber.StatusNotFound).JSON(schemas.ErrorResponse{
		Error:       true,
		Problem:     problem,
		Description: description,
	})
}

// HandleConflictError handles requests clashing with existing state (expected errors)
func HandleConflictError(c *fiber.Ctx, problem string, description string) error {
	return c.Status(fiber.StatusConflict).JSON(schemas.ErrorResponse{
		Error:       true,
		Problem:     problem,
		Description: description,
	})
}

// HandleUnauthorizedError handles missing or invalid credentials
func HandleUnauthorizedError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(schemas.ErrorResponse{
		Error:   true,
		Problem: "Authorization",
	})
}

// HandleValidatorError handles errors when validating request
func HandleValidatorError(c *fiber.Ctx, err error) error {
	validatorErr := err.(validator.ValidationErrors)[0]
	return HandleBadRequestError(c, validatorErr.StructField(), validatorErr.Tag())
}

// HandleBadJsonError handles json request parser errors
func HandleBadJsonError(c *fiber.Ctx) error {
	return HandleBadRequestError(c, "JSON body", "invalid")
}
