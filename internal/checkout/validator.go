package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	nameRegex       = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚüÜñÑ\s]+$`)
	phoneRegex      = regexp.MustCompile(`^(\+52[\s.-]?)?\d{2,3}[\s.-]?\d{3,4}[\s.-]?\d{4}$`)
	postalCodeRegex = regexp.MustCompile(`^\d{5}$`)
)

// Validator runs the checkout schemas. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a checkout validator with the Mexican field rules
// registered.
func NewValidator() *Validator {
	v := validator.New()

	// Report JSON names so error paths match the request payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "mx_name", matchString(nameRegex))
	mustRegister(v, "mx_phone", matchString(phoneRegex))
	mustRegister(v, "mx_postal_code", matchString(postalCodeRegex))
	mustRegister(v, "mx_state", func(fl validator.FieldLevel) bool {
		return IsState(fl.Field().String())
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("checkout: register %s: %v", tag, err))
	}
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// ValidateShippingAddress trims and validates a shipping address.
func (v *Validator) ValidateShippingAddress(addr ShippingAddress) (ShippingAddress, error) {
	addr = addr.normalized()
	if err := v.check(addr); err != nil {
		return ShippingAddress{}, err
	}
	return addr, nil
}

// ValidatePaymentMethod checks that method is one of PaymentMethods.
func (v *Validator) ValidatePaymentMethod(method string) (PaymentMethod, error) {
	sel := paymentSelection{PaymentMethod: PaymentMethod(strings.TrimSpace(method))}
	if err := v.check(sel); err != nil {
		return "", err
	}
	return sel.PaymentMethod, nil
}

// ValidateGiftOptions requires a message whenever gift wrapping is chosen.
func (v *Validator) ValidateGiftOptions(opts GiftOptions) (GiftOptions, error) {
	opts.GiftMessage = giftMessage(opts.GiftWrap, opts.GiftMessage)
	if err := v.check(opts); err != nil {
		return GiftOptions{}, err
	}
	return opts, nil
}

// giftMessage keeps the trimmed message only for wrapped gifts.
func giftMessage(wrap bool, msg string) string {
	if !wrap {
		return ""
	}
	return strings.TrimSpace(msg)
}

// ValidateForm validates the whole checkout form, reporting every failing
// field at once.
func (v *Validator) ValidateForm(form Form) (Form, error) {
	form.Shipping = form.Shipping.normalized()
	form.PaymentMethod = PaymentMethod(strings.TrimSpace(string(form.PaymentMethod)))
	form.GiftMessage = giftMessage(form.GiftWrap, form.GiftMessage)
	form.Notes = strings.TrimSpace(form.Notes)

	if err := v.check(form); err != nil {
		return Form{}, err
	}
	return form, nil
}

func (v *Validator) check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate %T: %w", s, err)
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Path:    fieldPath(fe.Namespace()),
			Message: messageFor(fe),
		})
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace, turning
// "Form.shipping.postalCode" into "shipping.postalCode".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func (a ShippingAddress) normalized() ShippingAddress {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	a.Email = strings.TrimSpace(a.Email)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Street = strings.TrimSpace(a.Street)
	a.ExteriorNumber = strings.TrimSpace(a.ExteriorNumber)
	a.InteriorNumber = strings.TrimSpace(a.InteriorNumber)
	a.Neighborhood = strings.TrimSpace(a.Neighborhood)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.References = strings.TrimSpace(a.References)
	return a
}
