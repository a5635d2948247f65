package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/telemetry"
	"github.com/taskhive-dev/taskhive/internal/types"
)

type ErrorResponse struct {
	Message   string        `json:"message"`
	ErrorCode apperror.Code `json:"errorCode,omitempty"`
}

var registerTagNames sync.Once

// UseJSONFieldNames makes validation errors name fields by their json tag.
func UseJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
}

// BindError marks err as a request decoding failure.
func BindError(ctx *gin.Context, err error) {
	_ = ctx.Error(err).SetType(gin.ErrorTypeBind)
}

// ErrorHandler renders the last error attached to the context. Handlers
// report failures with ctx.Error and return without writing a body.
func ErrorHandler(log *logrus.Entry) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 {
			return
		}

		last := ctx.Errors.Last()
		status, body := Translate(last.Err, last.IsType(gin.ErrorTypeBind))

		if status >= http.StatusInternalServerError {
			log.WithError(last.Err).WithFields(logrus.Fields{
				"method":     ctx.Request.Method,
				"path":       ctx.Request.URL.Path,
				"request_id": ctx.GetString(types.ContextRequestIDKey),
			}).Error("request failed")

			telemetry.CaptureError(last.Err, ctx.Request, map[string]string{
				"route": ctx.FullPath(),
			})
		}

		if ctx.Writer.Written() {
			return
		}

		ctx.AbortWithStatusJSON(status, body)
	}
}

// Translate maps an error to its HTTP status and response body.
func Translate(err error, bind bool) (int, ErrorResponse) {
	if appErr, ok := apperror.As(err); ok {
		if appErr.Kind == apperror.KindInternal {
			return http.StatusInternalServerError, internalError()
		}
		return appErr.StatusCode(), ErrorResponse{Message: appErr.Message, ErrorCode: appErr.Code}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, ErrorResponse{
			Message:   validationMessage(validationErrs),
			ErrorCode: apperror.CodeValidation,
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return http.StatusBadRequest, ErrorResponse{
			Message:   fmt.Sprintf("%s has an invalid type", typeErr.Field),
			ErrorCode: apperror.CodeValidation,
		}
	}

	var syntaxErr *json.SyntaxError
	if bind || errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) {
		return http.StatusBadRequest, ErrorResponse{
			Message:   types.InvalidJSONMessage,
			ErrorCode: apperror.CodeInvalidJSON,
		}
	}

	return http.StatusInternalServerError, internalError()
}

func internalError() ErrorResponse {
	return ErrorResponse{
		Message:   types.InternalErrorMessage,
		ErrorCode: apperror.CodeInternalServerError,
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))

	for _, fe := range errs {
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}

	return strings.Join(msgs, "; ")
}
