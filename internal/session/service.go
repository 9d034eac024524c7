// Package session coordinates a single chat exchange: transcript mutation,
// relay dispatch and error mapping for the caller to render.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"loreal-chat/internal/domain"
	"loreal-chat/internal/relay"
)

const defaultMaxInputLen = 2000

// Transcript is the conversation state consumed by the service.
type Transcript interface {
	Append(msg domain.Message)
	Transcript() []domain.Message
}

// Sender dispatches a sanitized payload and returns the reply text.
type Sender interface {
	Send(ctx context.Context, p relay.Payload) (string, error)
}

// ChatService runs the submit pipeline: append the user message, persist,
// send the sanitized transcript, append the reply.
type ChatService struct {
	transcript  Transcript
	sender      Sender
	maxInputLen int

	now func() time.Time
}

// NewChatService creates a ChatService.
func NewChatService(transcript Transcript, sender Sender) (*ChatService, error) {
	if transcript == nil {
		return nil, errors.New("session: transcript must not be nil")
	}
	if sender == nil {
		return nil, errors.New("session: sender must not be nil")
	}
	return &ChatService{
		transcript:  transcript,
		sender:      sender,
		maxInputLen: defaultMaxInputLen,
		now:         time.Now,
	}, nil
}

// Submit sends one user message and returns the assistant reply. On failure
// the transcript keeps the user message but gains no assistant entry, so a
// later submit continues cleanly from what the user already saw.
func (s *ChatService) Submit(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", newError(ErrorInvalidInput, "empty_message", nil)
	}
	if len(text) > s.maxInputLen {
		return "", newError(ErrorInvalidInput, "message_too_long", nil)
	}

	s.transcript.Append(domain.Stamped(domain.RoleUser, text, s.now()))

	reply, err := s.sender.Send(ctx, relay.BuildPayload(s.transcript.Transcript()))
	if err != nil {
		return "", mapSendError(err)
	}

	s.transcript.Append(domain.Stamped(domain.RoleAssistant, reply, s.now()))
	return reply, nil
}

func mapSendError(err error) *Error {
	var confErr *relay.ConfigError
	if errors.As(err, &confErr) {
		return newError(ErrorConfiguration, "relay_unconfigured", err)
	}
	var statusErr *relay.StatusError
	if errors.As(err, &statusErr) {
		return newError(ErrorRelay, fmt.Sprintf("relay_status_%d", statusErr.StatusCode), err)
	}
	return newError(ErrorRelay, "relay_unreachable", err)
}
