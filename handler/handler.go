package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"loreal-chat/internal/domain"
	"loreal-chat/internal/integrations/openai"
)

// Forwarder relays a conversation to the upstream chat-completion API and
// returns the upstream status code and raw response body.
type Forwarder interface {
	Forward(ctx context.Context, messages []domain.ChatMessage) (int, []byte, error)
}

type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

const (
	errMalformedBody       = "MALFORMED_BODY"
	errMissingCredential   = "MISSING_CREDENTIAL"
	errUpstreamUnreachable = "UPSTREAM_UNREACHABLE"
)

type Handler struct {
	forwarder Forwarder
}

func NewHandler(forwarder Forwarder) (*Handler, error) {
	if forwarder == nil {
		return nil, errors.New("handler: forwarder is required")
	}
	return &Handler{forwarder: forwarder}, nil
}

// Handle answers CORS preflight directly and forwards chat requests upstream,
// passing the upstream status and body through verbatim.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(event.Headers)

	if event.HTTPMethod == http.MethodOptions {
		return response(http.StatusNoContent, "", corrID), nil
	}

	var req chatRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return errorJSON(http.StatusBadRequest, errMalformedBody, "invalid_json", corrID), nil
	}
	if len(req.Messages) == 0 {
		return errorJSON(http.StatusBadRequest, errMalformedBody, "empty_messages", corrID), nil
	}

	status, body, err := h.forwarder.Forward(ctx, req.Messages)
	if err != nil {
		var credErr *openai.CredentialError
		if errors.As(err, &credErr) {
			return errorJSON(http.StatusInternalServerError, errMissingCredential, "credential_unavailable", corrID), nil
		}
		return errorJSON(http.StatusBadGateway, errUpstreamUnreachable, "forward_failed", corrID), nil
	}

	return response(status, string(body), corrID), nil
}

func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "X-Correlation-Id") && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

func response(status int, body, corrID string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "POST, OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type, Authorization",
			"X-Correlation-Id":             corrID,
		},
		Body: body,
	}
}

func errorJSON(status int, code, reason, corrID string) events.APIGatewayProxyResponse {
	b, _ := json.Marshal(errorResponse{Error: code, Reason: reason})
	return response(status, string(b), corrID)
}
