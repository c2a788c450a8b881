package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/iol-platform/logistics-service/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator initializes the validator with custom validators
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		registerCustom(validate)

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustom(v)
		}
	})

	return validate
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("company_id", validateCompanyID)
	_ = v.RegisterValidation("company_type", validateCompanyType)
	_ = v.RegisterValidation("lo_topic", validateTopic)

	// Use JSON tag names for error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		return InitValidator()
	}
	return validate
}

// Company identifiers are lowercase alphanumeric, no spaces
var companyIDRegex = regexp.MustCompile(`^[a-z0-9]+$`)

func validateCompanyID(fl validator.FieldLevel) bool {
	return companyIDRegex.MatchString(fl.Field().String())
}

func validateCompanyType(fl validator.FieldLevel) bool {
	validTypes := map[string]bool{
		"shipper":    true,
		"forwarder":  true,
		"airline":    true,
		"handler":    true,
		"customs":    true,
		"trucking":   true,
		"warehouse":  true,
		"salesagent": true,
	}
	return validTypes[fl.Field().String()]
}

func validateTopic(fl validator.FieldLevel) bool {
	validTopics := map[string]bool{
		"Airwaybill":    true,
		"Housemanifest": true,
		"Housewaybill":  true,
		"Booking":       true,
	}
	return validTopics[fl.Field().String()]
}

// ValidationErrorFormatter formats validation errors into a message
func ValidationErrorFormatter(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		parts := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			parts = append(parts, e.Field()+" "+formatValidationError(e))
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "company_id":
		return "must be lowercase alphanumeric with no spaces"
	case "company_type":
		return "must be one of: shipper, forwarder, airline, handler, customs, trucking, warehouse, salesagent"
	case "lo_topic":
		return "must be one of: Airwaybill, Housemanifest, Housewaybill, Booking"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// BindAndValidate binds a JSON request body and validates it
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return errors.ErrValidation(ValidationErrorFormatter(validationErrors))
		}
		return errors.ErrBadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// ValidateStruct validates a struct using the validator
func ValidateStruct(obj interface{}) *errors.AppError {
	v := GetValidator()
	if err := v.Struct(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return errors.ErrValidation(ValidationErrorFormatter(validationErrors))
		}
		return errors.ErrBadRequest("validation failed: " + err.Error())
	}
	return nil
}
