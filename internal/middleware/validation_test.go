package middleware

import (
	"testing"

	"connector-service/internal/apperror"

	"github.com/stretchr/testify/assert"
)

var registration = []Rule{
	Required("name", "Name is required"),
	IsEmail("email", "Please include a valid email"),
	MinLength("password", 6, "Please enter a valid password with min of 6 chars"),
}

func messages(violations []apperror.Violation) []string {
	var out []string
	for _, v := range violations {
		out = append(out, v.Message)
	}
	return out
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    []string
	}{
		{
			name:    "all valid",
			payload: Payload{"name": "Ann", "email": "ann@example.com", "password": "secret1"},
		},
		{
			name:    "all invalid in rule order",
			payload: Payload{"email": "not-an-email", "password": "123"},
			want:    []string{"Name is required", "Please include a valid email", "Please enter a valid password with min of 6 chars"},
		},
		{
			name:    "empty string is missing",
			payload: Payload{"name": "", "email": "ann@example.com", "password": "secret1"},
			want:    []string{"Name is required"},
		},
		{
			name:    "non string email",
			payload: Payload{"name": "Ann", "email": 42, "password": "secret1"},
			want:    []string{"Please include a valid email"},
		},
		{
			name:    "non string name",
			payload: Payload{"name": true, "email": "ann@example.com", "password": "secret1"},
			want:    []string{"Name is required"},
		},
		{
			name:    "numeric name",
			payload: Payload{"name": 42, "email": "ann@example.com", "password": "secret1"},
			want:    []string{"Name is required"},
		},
		{
			name:    "password exactly at minimum",
			payload: Payload{"name": "Ann", "email": "ann@example.com", "password": "123456"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messages(Check(tt.payload, registration)))
		})
	}
}

func TestCheckRequiredList(t *testing.T) {
	rules := []Rule{Required("skills", "skills is required")}

	assert.Empty(t, Check(Payload{"skills": []any{"go"}}, rules))
	assert.Len(t, Check(Payload{"skills": []any{}}, rules), 1)
	assert.Empty(t, Check(Payload{"skills": "go, rust"}, rules))
}

func TestCheckViolationShape(t *testing.T) {
	violations := Check(Payload{"email": "nope"}, []Rule{IsEmail("email", "Please include a valid email")})

	assert.Equal(t, []apperror.Violation{{
		Message:  "Please include a valid email",
		Field:    "email",
		Location: "body",
		Value:    "nope",
	}}, violations)
}
