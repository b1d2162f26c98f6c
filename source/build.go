package source

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tmshv/bulletin/internal"
)

const (
	KeyType           = "type"
	KeyText           = "text"
	KeyCity           = "city"
	KeyExpirationDate = "expiration_date"
	KeyTemperature    = "temperature"
)

// Fields is the raw field mapping of one record, keyed by the names above.
type Fields map[string]string

type newsFields struct {
	Text string `field:"text" validate:"required"`
	City string `field:"city" validate:"required"`
}

type adFields struct {
	Text           string `field:"text" validate:"required"`
	ExpirationDate string `field:"expiration_date" validate:"required"`
}

type weatherFields struct {
	City        string `field:"city" validate:"required"`
	Temperature string `field:"temperature" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("field")
	})
	return v
}

// Build constructs the record described by fields as of now.
func Build(fields Fields, now time.Time) (internal.Record, error) {
	kind, err := internal.ParseKind(fields[KeyType])
	if err != nil {
		return nil, err
	}

	switch kind {
	case internal.KindNews:
		f := newsFields{Text: fields[KeyText], City: fields[KeyCity]}
		if err := check(f); err != nil {
			return nil, err
		}
		return internal.NewNewsAt(f.Text, f.City, now), nil

	case internal.KindPrivateAd:
		f := adFields{Text: fields[KeyText], ExpirationDate: fields[KeyExpirationDate]}
		if err := check(f); err != nil {
			return nil, err
		}
		expiration, err := ParseDate(f.ExpirationDate)
		if err != nil {
			return nil, err
		}
		return internal.NewPrivateAdAt(f.Text, expiration, now), nil

	case internal.KindWeather:
		f := weatherFields{City: fields[KeyCity], Temperature: fields[KeyTemperature]}
		if err := check(f); err != nil {
			return nil, err
		}
		temperature, err := ParseTemperature(f.Temperature)
		if err != nil {
			return nil, err
		}
		return internal.NewWeatherAt(f.City, temperature, now), nil
	}

	return nil, fmt.Errorf("unsupported record type %q", kind)
}

// ParseDate reads a dd/mm/yyyy date.
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(internal.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("wrong date format %q, want dd/mm/yyyy", s)
	}
	return date, nil
}

func ParseTemperature(s string) (int, error) {
	temperature, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("temperature %q is not an integer", s)
	}
	return temperature, nil
}

func check(fields interface{}) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	missing := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		missing = append(missing, fe.Field())
	}
	return fmt.Errorf("missing field %s", strings.Join(missing, ", "))
}

// FieldsOf turns a record back into its raw field mapping.
func FieldsOf(r internal.Record) Fields {
	switch r := r.(type) {
	case *internal.News:
		return Fields{
			KeyType: string(r.Kind()),
			KeyText: r.Text(),
			KeyCity: r.City(),
		}
	case *internal.PrivateAd:
		return Fields{
			KeyType:           string(r.Kind()),
			KeyText:           r.Text(),
			KeyExpirationDate: r.Expiration().Format(internal.DateLayout),
		}
	case *internal.Weather:
		return Fields{
			KeyType:        string(r.Kind()),
			KeyCity:        r.City(),
			KeyTemperature: strconv.Itoa(r.Temperature()),
		}
	}
	return Fields{KeyType: string(r.Kind())}
}
