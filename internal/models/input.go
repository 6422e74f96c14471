package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mitchellh/mapstructure"
)

var (
	validate   = newValidator()
	textPolicy = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeCreate unmarshals a create payload into req and validates it.
func decodeCreate(payload []byte, req interface{}) error {
	if err := json.Unmarshal(payload, req); err != nil {
		return fmt.Errorf("Invalid input: %v", err)
	}

	if err := validate.Struct(req); err != nil {
		return describeValidation(err)
	}

	return nil
}

func describeValidation(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("Invalid input: %v", err)
	}

	first := validationErrors[0]
	if first.Tag() == "required" {
		return fmt.Errorf("Invalid input: missing field %s", first.Field())
	}
	if first.Param() != "" {
		return fmt.Errorf("Invalid input: field %s must satisfy %s=%s", first.Field(), first.Tag(), first.Param())
	}
	return fmt.Errorf("Invalid input: field %s must satisfy %s", first.Field(), first.Tag())
}

// decodePatch maps a loosely typed update body onto a struct of pointer fields
// and validates the fields that were set.
func decodePatch(content map[string]any, patch interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           patch,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(content); err != nil {
		return err
	}
	return validate.Struct(patch)
}

// assign copies src into dst when src is set and differs.
func assign[V comparable](dst *V, src *V) bool {
	if src == nil || *dst == *src {
		return false
	}
	*dst = *src
	return true
}

func sanitizeText(value string) string {
	return strings.TrimSpace(textPolicy.Sanitize(value))
}
