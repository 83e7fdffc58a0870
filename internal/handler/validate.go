package handler

import (
    "errors"
    "reflect"
    "strconv"
    "strings"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/campus-reservations/internal/model"
)

var validate = newValidator()

// newValidator reports fields by their JSON name.
func newValidator() *validator.Validate {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        return name
    })
    return v
}

// bindValid decodes the JSON body into dst and validates it.
func bindValid(c echo.Context, dst any) error {
    if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
        return invalid("body", "malformed JSON body")
    }
    return validStruct(dst)
}

func validStruct(dst any) error {
    err := validate.Struct(dst)
    var verrs validator.ValidationErrors
    if errors.As(err, &verrs) && len(verrs) > 0 {
        fe := verrs[0]
        return invalid(fe.Field(), describe(fe))
    }
    return err
}

func describe(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return "is required"
    case "datetime":
        return "must match " + fe.Param()
    case "email":
        return "must be an email address"
    case "gt":
        return "must be greater than " + fe.Param()
    }
    return "failed " + fe.Tag() + " validation"
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, invalid(name, "must be a positive integer")
    }
    return id, nil
}

// parseDate validates s as a strict calendar date.
func parseDate(field, s string) (model.CivilDate, error) {
    if err := validate.Var(s, "required,datetime="+model.DateLayout); err != nil {
        return model.CivilDate{}, invalid(field, "must be a date formatted "+model.DateLayout)
    }
    return model.ParseDate(s)
}

// parseInstant validates s as an RFC 3339 timestamp with an explicit offset.
func parseInstant(field, s string) (time.Time, error) {
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return time.Time{}, invalid(field, "must be an RFC 3339 timestamp")
    }
    return t, nil
}
