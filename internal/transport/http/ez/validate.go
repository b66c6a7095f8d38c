package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	resp "devprofile-api/internal/transport/http/response"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

// fieldName reports fields under their wire name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// bindError turns a binding failure into a 400 list, or 413 for an oversized body.
// Field messages come from the `msg` struct tag of the request type.
func bindError(err error, b Binder, in any) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return &AErr{Code: http.StatusRequestEntityTooLarge, Err: err}
	}

	loc := b.location()
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		t := reflect.TypeOf(in)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		fields := make([]resp.FieldError, 0, len(ves))
		for _, fe := range ves {
			fields = append(fields, resp.FieldError{
				Msg:      fieldMsg(t, fe),
				Param:    fe.Field(),
				Location: loc,
			})
		}
		return &AErr{Code: http.StatusBadRequest, Fields: fields, Err: err}
	}

	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &AErr{Code: http.StatusBadRequest, Err: err, Fields: []resp.FieldError{{
			Msg: "Invalid value", Param: te.Field, Location: loc,
		}}}
	}
	return &AErr{Code: http.StatusBadRequest, Msg: "Invalid request " + loc, Err: err}
}

func fieldMsg(t reflect.Type, fe validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if m := sf.Tag.Get("msg"); m != "" {
				return m
			}
		}
	}
	return fe.Field() + " is invalid"
}
