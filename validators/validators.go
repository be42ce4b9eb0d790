package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"vaultgrow/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// report errors under the json field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct runs the struct tags and returns one message per failing field.
func Struct(req interface{}) map[string]string {
	errs := make(map[string]string)
	err := validate.Struct(req)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["request"] = "Invalid request!"
		return errs
	}
	for _, fe := range fieldErrs {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", field)
	case "email":
		return "Invalid email!"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long!", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long!", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid!", field)
}

// Body parses the JSON body into req, validates it and stores it under key.
// It is the shared shape of every body validator middleware.
func Body(key string, newReq func() interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := newReq()
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := Struct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals(key, reqData)
		return c.Next()
	}
}

// Pagination is the page/limit query shared by list endpoints.
type Pagination struct {
	Page   int    `query:"page" json:"page" validate:"gte=0"`
	Limit  int    `query:"limit" json:"limit" validate:"gte=0,lte=200"`
	Status string `query:"status" json:"status"`
}

// Query validates page/limit query parameters.
func Query() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(Pagination)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errs := Struct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("pagination", reqData)
		return c.Next()
	}
}

// GetPagination returns what Query stored, or the zero value.
func GetPagination(c *fiber.Ctx) Pagination {
	if p, ok := c.Locals("pagination").(*Pagination); ok {
		return *p
	}
	return Pagination{}
}
