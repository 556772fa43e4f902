package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"required": "%s is required",
	"oneof":    "%s must be one of: %s",
	"max":      "%s must be at most %s characters",
	"datetime": "%s must be a date in the %s format",
}

// validateRequest returns nil or field -> message for every failed rule.
func validateRequest(req any) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return map[string]string{"body": err.Error()}
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		msg, ok := fieldMessages[e.Tag()]
		if !ok {
			fields[e.Field()] = fmt.Sprintf("%s is invalid", e.Field())
			continue
		}
		if strings.Count(msg, "%s") == 2 {
			fields[e.Field()] = fmt.Sprintf(msg, e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
		} else {
			fields[e.Field()] = fmt.Sprintf(msg, e.Field())
		}
	}
	return fields
}

// firstMessage picks a stable headline for the error payload.
func firstMessage(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fields[keys[0]]
}

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}
