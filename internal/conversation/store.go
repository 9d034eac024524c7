// Package conversation owns the ordered chat transcript and its persisted
// lifecycle: restore at load, append-and-persist on each turn, explicit clear.
package conversation

import (
	"encoding/json"
	"errors"
	"time"

	"loreal-chat/internal/domain"
)

const historyKey = "loreal_chat_history_v1"

const (
	systemPrompt = "You are a friendly beauty advisor for the L'Oréal product range. " +
		"Answer questions about makeup, skincare, haircare and fragrance routines, " +
		"recommend suitable products, and politely decline anything unrelated."
	greetingText = "Hi! I'm your personal beauty advisor. Ask me anything about " +
		"routines, products or looks."
)

// Storage is the durable key-value store the transcript persists into.
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Store owns the transcript for the lifetime of a session. The system
// message is always entry zero and exactly one; it is reconstructed from a
// constant at load time and never persisted. Only user and assistant
// messages reach durable storage.
type Store struct {
	storage    Storage
	transcript []domain.Message
}

// New creates a Store backed by the given storage.
func New(storage Storage) (*Store, error) {
	if storage == nil {
		return nil, errors.New("conversation: storage must not be nil")
	}
	s := &Store{storage: storage}
	s.reset()
	return s, nil
}

func systemMessage() domain.Message {
	return domain.Message{Role: domain.RoleSystem, Content: systemPrompt}
}

// Greeting is the ephemeral assistant message shown on a fresh transcript.
// It is never part of the owned transcript and never persisted.
func Greeting() domain.Message {
	return domain.Message{Role: domain.RoleAssistant, Content: greetingText}
}

func (s *Store) reset() {
	s.transcript = []domain.Message{systemMessage()}
}

// Init restores the persisted user/assistant subset, or starts fresh. A
// fresh transcript is returned with the greeting appended for rendering;
// the greeting is not retained. A persisted value that is not a JSON array
// of messages is treated as corrupt: the record is purged and the
// transcript starts fresh, without error.
func (s *Store) Init() []domain.Message {
	s.reset()

	raw, ok, err := s.storage.Get(historyKey)
	if err != nil || !ok {
		return append(s.snapshot(), Greeting())
	}

	var persisted []domain.Message
	if err := json.Unmarshal(raw, &persisted); err != nil {
		_ = s.storage.Delete(historyKey)
		return append(s.snapshot(), Greeting())
	}
	for _, m := range persisted {
		if m.Role == domain.RoleUser || m.Role == domain.RoleAssistant {
			s.transcript = append(s.transcript, m)
		}
	}
	if len(s.transcript) == 1 {
		return append(s.snapshot(), Greeting())
	}
	return s.snapshot()
}

// Append adds a message to the end of the transcript. User and assistant
// messages trigger persistence; the system role is never appended after
// init and is ignored here.
func (s *Store) Append(msg domain.Message) {
	if msg.Role == domain.RoleSystem {
		return
	}
	s.transcript = append(s.transcript, msg)
	if msg.Role == domain.RoleUser || msg.Role == domain.RoleAssistant {
		s.Persist()
	}
}

// Persist writes the user/assistant subsequence to durable storage in order.
// A failed write loses durability, not functionality, so it is swallowed.
func (s *Store) Persist() {
	subset := make([]domain.Message, 0, len(s.transcript))
	for _, m := range s.transcript {
		if m.Role == domain.RoleUser || m.Role == domain.RoleAssistant {
			subset = append(subset, m)
		}
	}
	raw, err := json.Marshal(subset)
	if err != nil {
		return
	}
	_ = s.storage.Put(historyKey, raw)
}

// Clear removes the persisted record and resets the transcript to the
// system message alone, returning it for the caller to re-render.
func (s *Store) Clear() []domain.Message {
	_ = s.storage.Delete(historyKey)
	s.reset()
	return s.snapshot()
}

// Transcript returns a copy of the current transcript.
func (s *Store) Transcript() []domain.Message {
	return s.snapshot()
}

func (s *Store) snapshot() []domain.Message {
	out := make([]domain.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// NewUserMessage stamps a user message with the current time.
func NewUserMessage(content string, at time.Time) domain.Message {
	return domain.Stamped(domain.RoleUser, content, at)
}

// NewAssistantMessage stamps an assistant message with the current time.
func NewAssistantMessage(content string, at time.Time) domain.Message {
	return domain.Stamped(domain.RoleAssistant, content, at)
}
