package p2p

import (
	"encoding/json"

	"goncoin/blockchain"
)

// MessageType is the type tag of a sync protocol message.
type MessageType string

const (
	MessageTypeQueryLatest        MessageType = "QUERY_LATEST"
	MessageTypeQueryAll           MessageType = "QUERY_ALL"
	MessageTypeResponseBlockchain MessageType = "RESPONSE_BLOCKCHAIN"
)

// Message is the envelope exchanged between peers. The payload is only
// present for RESPONSE_BLOCKCHAIN, where it carries either a single tip
// block or a full chain.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a message with the given type and payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	if payload == nil {
		return &Message{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:    msgType,
		Payload: json.RawMessage(payloadBytes),
	}, nil
}

// ParsePayload unmarshals the message payload into the provided value.
func (m *Message) ParsePayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// QueryLatestMessage asks a peer for its tip block.
func QueryLatestMessage() *Message {
	return &Message{Type: MessageTypeQueryLatest}
}

// QueryAllMessage asks a peer for its entire chain.
func QueryAllMessage() *Message {
	return &Message{Type: MessageTypeQueryAll}
}

// ResponseBlockchainMessage carries a chain fragment: one tip block or a
// full chain.
func ResponseBlockchainMessage(blocks blockchain.Chain) (*Message, error) {
	return NewMessage(MessageTypeResponseBlockchain, blocks)
}
