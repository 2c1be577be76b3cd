package feed

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is sent by devices in hello; other versions are refused
const ProtocolVersion = 1

// Message types carried in Envelope.T
const (
	MsgHello   = "hello"   // device -> game
	MsgWelcome = "welcome" // game -> device
	MsgReading = "reading" // device -> game
	MsgState   = "state"   // game -> device
)

// Envelope wraps every frame on the socket
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}

type Hello struct {
	V    int    `json:"v"`              // protocol version
	Name string `json:"name,omitempty"` // optional device label
}

type Welcome struct {
	DeviceID   string `json:"deviceId"`
	IntervalMs int    `json:"intervalMs"` // requested sampling interval
}

// Reading is an accelerometer sample in g
type Reading struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// State mirrors the ball back to the device
type State struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Colliding bool    `json:"colliding"`
	Won       bool    `json:"won"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Encode builds an envelope frame around payload
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: empty envelope type")
	}
	if payload == nil {
		return nil, fmt.Errorf("encode %q: nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope parses a frame without touching the payload
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode: empty frame")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("decode: missing envelope type")
	}
	return e, nil
}

// DecodePayload unmarshals the envelope payload into T
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("decode %q payload: %w", env.T, err)
	}
	return out, nil
}
