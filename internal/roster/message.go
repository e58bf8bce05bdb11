package roster

import (
	"encoding/json"
	"fmt"
)

// MessageType identifies a host bridge message.
type MessageType string

const (
	// MessageInit announces the local account identity.
	MessageInit MessageType = "init"
	// MessageSquadUpdate carries a batch of user updates.
	MessageSquadUpdate MessageType = "squad_update"
)

// Message is one frame of the host bridge protocol.
type Message struct {
	Type        MessageType  `json:"type"`
	AccountName *string      `json:"account_name,omitempty"`
	Users       []UserUpdate `json:"users,omitempty"`
	// DelayMs is only honoured by replay sources.
	DelayMs int `json:"delay_ms,omitempty"`
}

// DecodeMessage parses a single JSON message.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decoding host message: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("decoding host message: missing type")
	}
	return msg, nil
}

// InitMessage builds an init frame.
func InitMessage(accountName string) Message {
	return Message{Type: MessageInit, AccountName: Account(accountName)}
}

// UpdateMessage builds a squad_update frame.
func UpdateMessage(users ...UserUpdate) Message {
	return Message{Type: MessageSquadUpdate, Users: users}
}
