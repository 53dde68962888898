package validator

import (
	"log"
	"strings"

	"contacts_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Email должен иметь минимум два сегмента домена и домен верхнего уровня из списка
var allowedEmailTLDs = []string{"com", "net"}

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'email_tld': ограничение домена верхнего уровня (используется вместе с 'email')
	mustRegister("email_tld", validateEmailTLD)

	// 'subscription': тариф из models.Subscription
	mustRegister("subscription", validateSubscription)
}

func validateEmailTLD(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения - забота 'required'
	}

	at := strings.LastIndex(value, "@")
	if at < 0 {
		return false
	}

	segments := strings.Split(strings.ToLower(value[at+1:]), ".")
	if len(segments) < 2 {
		return false
	}

	tld := segments[len(segments)-1]
	for _, allowed := range allowedEmailTLDs {
		if tld == allowed {
			return true
		}
	}
	return false
}

func validateSubscription(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Subscription(value).IsValid()
}
