package exts

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

var validation = validator.New(validator.WithRequiredStructEnabled())

// strictJSON refuses keys the target struct does not declare.
var strictJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

func ValidateStruct(data any) error {
	return validation.Struct(data)
}

func BindAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	} else if err := ValidateStruct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// BindStrictAndValidate is BindAndValidate for bodies that may only carry
// the declared fields, any other key fails with the given message.
func BindStrictAndValidate(c *fiber.Ctx, out any, message string) error {
	body := c.Body()
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := strictJSON.Unmarshal(body, out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, message)
	} else if err := ValidateStruct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
