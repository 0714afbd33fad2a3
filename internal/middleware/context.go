package middleware

import (
	"bytes"

	"connector-service/internal/apperror"
	"connector-service/internal/models"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
)

type requestKey struct{}

// Request is the per-request state shared by the pipeline stages.
type Request struct {
	RequestID string
	Identity  *models.Identity
	Body      Payload

	bodyLoaded bool
}

// Payload is a decoded JSON object body.
type Payload map[string]any

func (p Payload) String(key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

func (p Payload) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "on"
	default:
		return false
	}
}

// RequestFrom returns the request state, creating it on first use.
func RequestFrom(c fiber.Ctx) *Request {
	if req, ok := c.Locals(requestKey{}).(*Request); ok {
		return req
	}
	req := &Request{}
	c.Locals(requestKey{}, req)
	return req
}

// IdentityFrom returns the identity attached by the auth gate. Handlers behind
// the gate always find one.
func IdentityFrom(c fiber.Ctx) models.Identity {
	if identity := RequestFrom(c).Identity; identity != nil {
		return *identity
	}
	return models.Identity{}
}

// BodyFrom decodes the JSON body once and caches it on the request.
func BodyFrom(c fiber.Ctx) (Payload, error) {
	req := RequestFrom(c)
	if req.bodyLoaded {
		return req.Body, nil
	}

	payload := Payload{}
	raw := bytes.TrimSpace(c.Body())
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, apperror.Listed(apperror.BadRequest, "Invalid request body")
		}
		if payload == nil {
			payload = Payload{}
		}
	}

	req.Body = payload
	req.bodyLoaded = true
	return payload, nil
}
