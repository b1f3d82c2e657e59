package checkout

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// GiftMessageRequired is reported on giftMessage when gift wrapping is
// chosen without a message.
const GiftMessageRequired = "Incluye un mensaje para tu regalo"

// fieldMessages holds the copy shown next to form controls, keyed by
// "<json field>.<tag>".
var fieldMessages = map[string]string{
	"firstName.required": "El nombre es requerido",
	"firstName.min":      "El nombre debe tener al menos 2 caracteres",
	"firstName.max":      "El nombre no puede exceder 50 caracteres",
	"firstName.mx_name":  "El nombre solo puede contener letras",

	"lastName.required": "El apellido es requerido",
	"lastName.min":      "El apellido debe tener al menos 2 caracteres",
	"lastName.max":      "El apellido no puede exceder 50 caracteres",
	"lastName.mx_name":  "El apellido solo puede contener letras",

	"email.required": "El correo electrónico es requerido",
	"email.email":    "Ingresa un correo electrónico válido",
	"email.max":      "El correo electrónico no puede exceder 100 caracteres",

	"phone.required": "El teléfono es requerido",
	"phone.min":      "El teléfono debe tener al menos 10 dígitos",
	"phone.max":      "El teléfono no puede exceder 15 caracteres",
	"phone.mx_phone": "Ingresa un número de teléfono válido",

	"street.required": "La calle es requerida",
	"street.min":      "La calle debe tener al menos 5 caracteres",
	"street.max":      "La calle no puede exceder 100 caracteres",

	"exteriorNumber.required": "El número exterior es requerido",
	"exteriorNumber.max":      "El número exterior no puede exceder 10 caracteres",
	"interiorNumber.max":      "El número interior no puede exceder 10 caracteres",

	"neighborhood.required": "La colonia es requerida",
	"neighborhood.min":      "La colonia debe tener al menos 2 caracteres",
	"neighborhood.max":      "La colonia no puede exceder 100 caracteres",

	"city.required": "La ciudad es requerida",
	"city.min":      "La ciudad debe tener al menos 2 caracteres",
	"city.max":      "La ciudad no puede exceder 100 caracteres",
	"city.mx_name":  "La ciudad solo puede contener letras",

	"state.required": "Selecciona un estado",
	"state.mx_state": "Selecciona un estado válido",

	"postalCode.required":       "El código postal es requerido",
	"postalCode.mx_postal_code": "El código postal debe tener 5 dígitos",

	"references.max": "Las referencias no pueden exceder 200 caracteres",

	"paymentMethod.required": "Selecciona un método de pago",
	"paymentMethod.oneof":    "Selecciona un método de pago válido",

	"acceptTerms.eq": "Debes aceptar los términos y condiciones",

	"giftMessage.required_if": GiftMessageRequired,
	"giftMessage.max":         "El mensaje no puede exceder 200 caracteres",

	"notes.max": "Las notas no pueden exceder 500 caracteres",
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required", "required_if":
		return "Este campo es requerido"
	case "min":
		return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("No puede exceder %s caracteres", fe.Param())
	default:
		return "Valor inválido"
	}
}
