package shopify

import (
	"errors"
	"fmt"
	"strings"

	"shopify-migrator/internal/adapters/shopify/dto"
)

// TransportError is a non-2xx response that survived the retry policy.
type TransportError struct {
	Status   int
	Endpoint string
	Body     string
}

func (e *TransportError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("shopify request failed: %d %s", e.Status, e.Endpoint)
	}
	return fmt.Sprintf("shopify request failed: %d %s: %s", e.Status, e.Endpoint, e.Body)
}

// GraphQLError is a top-level errors array inside a 200. Never retried.
type GraphQLError struct {
	Endpoint string
	Messages []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("shopify graphql errors at %s: %s", e.Endpoint, strings.Join(e.Messages, "; "))
}

func newGraphQLError(endpoint string, entries []dto.GraphQLErrorEntry) error {
	messages := make([]string, 0, len(entries))
	for _, e := range entries {
		messages = append(messages, e.Message)
	}
	return &GraphQLError{Endpoint: endpoint, Messages: messages}
}

func userErrorsToError(operation string, userErrors []dto.UserError) error {
	if len(userErrors) == 0 {
		return nil
	}
	parts := make([]string, 0, len(userErrors))
	for _, ue := range userErrors {
		if len(ue.Field) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message))
			continue
		}
		parts = append(parts, ue.Message)
	}
	return fmt.Errorf("shopify %s: %s", operation, strings.Join(parts, "; "))
}

// benignUserErrors drops "already exists" style entries before the
// usual userErrorsToError conversion.
func benignUserErrors(operation string, userErrors []dto.UserError) error {
	var remaining []dto.UserError
	for _, ue := range userErrors {
		if isAlreadyExistsError(ue) {
			continue
		}
		remaining = append(remaining, ue)
	}
	return userErrorsToError(operation, remaining)
}

func isAlreadyExistsError(ue dto.UserError) bool {
	if strings.EqualFold(ue.Code, "TAKEN") {
		return true
	}
	msg := strings.ToLower(ue.Message)
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "already been taken")
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
