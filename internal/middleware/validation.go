package middleware

import (
	"fmt"

	"connector-service/internal/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

var validate = validator.New()

type RuleKind int

const (
	KindRequired RuleKind = iota
	KindEmail
	KindMinLength
)

// Rule checks one body field and carries the message reported when it fails.
type Rule struct {
	Field   string
	Kind    RuleKind
	Min     int
	Message string
}

func Required(field, message string) Rule {
	return Rule{Field: field, Kind: KindRequired, Message: message}
}

func IsEmail(field, message string) Rule {
	return Rule{Field: field, Kind: KindEmail, Message: message}
}

func MinLength(field string, n int, message string) Rule {
	return Rule{Field: field, Kind: KindMinLength, Min: n, Message: message}
}

func (r Rule) passes(value any) bool {
	switch r.Kind {
	case KindRequired:
		switch v := value.(type) {
		case nil:
			return false
		case string:
			return validate.Var(v, "required") == nil
		case []any:
			return validate.Var(v, "min=1") == nil
		default:
			// handlers read scalar fields as strings
			return false
		}
	case KindEmail:
		s, ok := value.(string)
		return ok && validate.Var(s, "required,email") == nil
	case KindMinLength:
		s, ok := value.(string)
		return ok && validate.Var(s, fmt.Sprintf("min=%d", r.Min)) == nil
	default:
		return false
	}
}

// Check runs every rule against the payload and returns the violations in
// rule order.
func Check(payload Payload, rules []Rule) []apperror.Violation {
	var violations []apperror.Violation
	for _, rule := range rules {
		value := payload[rule.Field]
		if rule.passes(value) {
			continue
		}
		violations = append(violations, apperror.Violation{
			Message:  rule.Message,
			Field:    rule.Field,
			Location: "body",
			Value:    value,
		})
	}
	return violations
}

// Validate decodes the body and stops the request with the collected
// violations when any rule fails.
func Validate(rules ...Rule) fiber.Handler {
	return func(c fiber.Ctx) error {
		payload, err := BodyFrom(c)
		if err != nil {
			return err
		}
		if violations := Check(payload, rules); len(violations) > 0 {
			return apperror.Validation(violations)
		}
		return c.Next()
	}
}
