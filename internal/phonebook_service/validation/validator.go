// Package validation checks phonebook items and request payloads, producing
// *domain.ValidationError with client-facing messages keyed by JSON field name.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aradsms/phonebook_api/internal/phonebook_service/domain"
	"github.com/aradsms/phonebook_api/internal/phonebook_service/referencedata"
)

// Optional parenthesised, optionally "+"-prefixed group, then digits,
// underscores, hyphens, spaces and parentheses.
var phonePattern = regexp.MustCompile(`^(\(?\+?[0-9]*\)?)?[0-9_\- ()]*$`)

// ValidPhoneNumber reports whether s matches the accepted phone number format.
func ValidPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

// ReferenceSets supplies the current valid country codes and timezone names.
type ReferenceSets interface {
	ValidCountryCodes(ctx context.Context) referencedata.Set
	ValidTimezoneNames(ctx context.Context) referencedata.Set
}

// PhoneNumberChecker looks up phone number usage in the store.
type PhoneNumberChecker interface {
	PhoneNumberTaken(ctx context.Context, phoneNumber string, excludeID int64) (bool, error)
}

type refSetsKey struct{}

type refSets struct {
	countries referencedata.Set
	timezones referencedata.Set
}

// itemRules mirrors the validated fields of domain.PhonebookItem.
type itemRules struct {
	FirstName    string `json:"first_name" validate:"required"`
	PhoneNumber  string `json:"phone_number" validate:"required,phone_format"`
	CountryCode  string `json:"country_code" validate:"country_code"`
	TimezoneName string `json:"timezone_name" validate:"timezone_name"`
}

type Validator struct {
	validate *validator.Validate
	refs     ReferenceSets
	phones   PhoneNumberChecker
}

func New(refs ReferenceSets, phones PhoneNumberChecker) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister("phone_format", v.RegisterValidation("phone_format", func(fl validator.FieldLevel) bool {
		return ValidPhoneNumber(fl.Field().String())
	}))
	mustRegister("country_code", v.RegisterValidationCtx("country_code", func(ctx context.Context, fl validator.FieldLevel) bool {
		sets, ok := ctx.Value(refSetsKey{}).(refSets)
		return ok && sets.countries.Contains(fl.Field().String())
	}))
	mustRegister("timezone_name", v.RegisterValidationCtx("timezone_name", func(ctx context.Context, fl validator.FieldLevel) bool {
		sets, ok := ctx.Value(refSetsKey{}).(refSets)
		return ok && sets.timezones.Contains(fl.Field().String())
	}))

	return &Validator{validate: v, refs: refs, phones: phones}
}

// mustRegister panics on a failed tag registration.
func mustRegister(tag string, err error) {
	if err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// ValidateStruct runs the `validate` tags of a request DTO.
func (v *Validator) ValidateStruct(ctx context.Context, s any) error {
	err := v.validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	verr, convErr := toValidationError(err)
	if convErr != nil {
		return convErr
	}
	return verr.OrNil()
}

// ValidateItem checks every rule of a phonebook item and collects all field
// failures. Uniqueness is only checked for a well-formed phone number and
// ignores the row identified by excludeID. Store errors are returned unwrapped
// from the validation result.
func (v *Validator) ValidateItem(ctx context.Context, item *domain.PhonebookItem, excludeID int64) error {
	sets := refSets{
		countries: v.refs.ValidCountryCodes(ctx),
		timezones: v.refs.ValidTimezoneNames(ctx),
	}
	rules := itemRules{
		FirstName:    item.FirstName,
		PhoneNumber:  item.PhoneNumber,
		CountryCode:  item.CountryCode,
		TimezoneName: item.TimezoneName,
	}

	verr := domain.NewValidationError()
	if err := v.validate.StructCtx(context.WithValue(ctx, refSetsKey{}, sets), rules); err != nil {
		converted, convErr := toValidationError(err)
		if convErr != nil {
			return convErr
		}
		verr = converted
	}

	if _, phoneFailed := verr.Fields["phone_number"]; !phoneFailed {
		taken, err := v.phones.PhoneNumberTaken(ctx, item.PhoneNumber, excludeID)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("phone_number", domain.MsgPhoneNumberTaken)
		}
	}

	return verr.OrNil()
}

func toValidationError(err error) (*domain.ValidationError, error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	verr := domain.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), messageFor(fe))
	}
	return verr, nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return domain.RequiredMessage(fe.Field())
	case "phone_format":
		return domain.MsgPhoneNumberInvalid
	case "country_code":
		return domain.MsgInvalidCountry
	case "timezone_name":
		return domain.MsgInvalidTimezone
	default:
		return "The " + fe.Field() + " is invalid"
	}
}
