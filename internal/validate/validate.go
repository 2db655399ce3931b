package validate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"

	"github.com/taskmanager/backend/api/transport"
)

const bodyKey = "validated_body"

// New builds the schema validator shared by all routes. Field names in
// error trees follow the JSON tags of the request DTOs.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Body decodes and schema-validates the request body as T before invoking
// the wrapped handler. Failures short-circuit with a 400 carrying a
// field -> messages tree; on success the typed value replaces the raw body.
func Body[T any](v *validator.Validate, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var payload T
		if err := json.Unmarshal(ctx.PostBody(), &payload); err != nil {
			writeInvalid(ctx, map[string][]string{"body": {"must be valid JSON"}})
			return
		}
		if err := v.Struct(payload); err != nil {
			writeInvalid(ctx, treeify(err))
			return
		}
		ctx.SetUserValue(bodyKey, payload)
		next(ctx)
	}
}

// FromRequest returns the validated body stored by Body.
func FromRequest[T any](ctx *fasthttp.RequestCtx) (T, bool) {
	value, ok := ctx.UserValue(bodyKey).(T)
	return value, ok
}

func writeInvalid(ctx *fasthttp.RequestCtx, details map[string][]string) {
	payload := transport.ErrorResponse{
		Success: false,
		Error:   "Invalid request body",
		Code:    "VALIDATION",
		Details: details,
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusBadRequest)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func treeify(err error) map[string][]string {
	tree := make(map[string][]string)
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		tree["body"] = []string{err.Error()}
		return tree
	}
	for _, fieldErr := range validationErrs {
		field := fieldErr.Field()
		tree[field] = append(tree[field], message(fieldErr))
	}
	return tree
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}
