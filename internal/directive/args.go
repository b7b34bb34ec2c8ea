package directive

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/broady/typedwamp/contract"
)

var (
	validate      = newValidator()
	schemaDecoder = newDecoder()
)

// ProcedureArgs are the arguments of //wamp:procedure.
type ProcedureArgs struct {
	URI    string `schema:"uri" validate:"required,wampuri"`
	Match  string `schema:"match" validate:"omitempty,oneof=exact prefix wildcard"`
	Invoke string `schema:"invoke" validate:"omitempty,oneof=single roundrobin random first last"`
}

// TopicArgs are the arguments of //wamp:topic.
type TopicArgs struct {
	URI   string `schema:"uri" validate:"required,wampuri"`
	Match string `schema:"match" validate:"omitempty,oneof=exact prefix wildcard"`
}

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(false)
	return d
}

func newValidator() *validator.Validate {
	v := validator.New()
	// The URI rules depend on the match policy of the same directive.
	if err := v.RegisterValidation("wampuri", func(fl validator.FieldLevel) bool {
		match := ""
		if f := reflect.Indirect(fl.Parent()).FieldByName("Match"); f.IsValid() && f.Kind() == reflect.String {
			match = f.String()
		}
		return contract.ValidURI(fl.Field().String(), match)
	}); err != nil {
		panic(err)
	}
	return v
}

// decode fills dst from values and validates it.
func decode(dst any, values url.Values) error {
	if err := schemaDecoder.Decode(dst, values); err != nil {
		return describeDecodeError(err)
	}
	if err := validate.Struct(dst); err != nil {
		return describeValidationError(err)
	}
	return nil
}

func describeDecodeError(err error) error {
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return err
	}
	var msgs []string
	for key, e := range multi {
		var unknown schema.UnknownKeyError
		if errors.As(e, &unknown) {
			msgs = append(msgs, "unknown option "+key)
			continue
		}
		msgs = append(msgs, key+": "+e.Error())
	}
	slices.Sort(msgs)
	return errors.New(strings.Join(msgs, "; "))
}

func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var msgs []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, strings.ToLower(fe.Field())+" is required")
		case "wampuri":
			msgs = append(msgs, fmt.Sprintf("malformed URI %q", fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", strings.ToLower(fe.Field()), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
