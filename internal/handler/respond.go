package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"eaglebank/pkg/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names so validation details match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs struct validation and projects every violation into a
// per-field detail, without aborting at the first one.
func validateRequest(obj interface{}) []apierror.FieldError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var details []apierror.FieldError
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apierror.FieldError{{Field: "", Message: "Invalid request data", Type: "invalid"}}
	}
	for _, fe := range verrs {
		details = append(details, apierror.FieldError{
			Field:   fe.Field(),
			Message: fieldErrorMessage(fe),
			Type:    fe.Tag(),
		})
	}
	return details
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "e164":
		return "Invalid phone number format"
	case "gt":
		return "Value must be greater than " + fe.Param()
	case "oneof":
		return "Value must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}

// respondError is the single boundary mapping domain errors to HTTP. Tagged
// errors surface their own status and message; anything else is logged in
// full and surfaced as a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		if len(apiErr.Details) > 0 {
			c.JSON(apiErr.Status(), gin.H{
				"message": apiErr.Message,
				"details": apiErr.Details,
			})
			return
		}
		c.JSON(apiErr.Status(), gin.H{"message": apiErr.Message})
		return
	}

	logger.Error("unhandled error",
		zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "An unexpected error occurred",
	})
}

func respondValidation(c *gin.Context, message string, details []apierror.FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": message,
		"details": details,
	})
}
