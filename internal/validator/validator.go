// Package validator wires go-playground/validator with English translations,
// both into Gin's binding engine (mock API server) and as a standalone
// struct validator (authoring form drafts).
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// standalone validates structs outside an HTTP request, sharing the same
// tag-name and translation setup as the binding engine.
var standalone *govalidator.Validate

func init() {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")

	standalone = govalidator.New()
	// Honor the same `binding` tags Gin evaluates during request binding.
	standalone.SetTagName("binding")
	configure(standalone)
}

// configure applies the shared tag-name function and translations.
func configure(v *govalidator.Validate) {
	// Use the JSON tag for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	en_translations.RegisterDefaultTranslations(v, trans)
}

// Setup registers the shared configuration on Gin's binding engine. Call
// once during mock server startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		configure(v)
	}
}

// TranslateErrors turns a binding/validation error into a map of field name
// to human-readable message. A non-validation error (e.g. a JSON syntax
// error) becomes a single-key "detail" map.
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst. Returns nil on
// success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Struct validates a struct value against its binding tags outside of an
// HTTP request. Returns nil on success or a translated field error map.
func Struct(v interface{}) map[string]string {
	if err := standalone.Struct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
