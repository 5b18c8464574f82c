// Package event defines the JSON envelopes produced by the
// gossip-publisher-zmq plugin and the messages exchanged inside the
// ln-history platform.
package event

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ln-history/lnhistory/internal/clock"
	"github.com/ln-history/lnhistory/internal/idgen"
	"github.com/ln-history/lnhistory/model"
	"github.com/viant/toolbox"
)

// Metadata describes a message captured by the plugin. Length is the payload
// size in bytes without the leading 2-byte type and is carried as a string
// on the wire.
type Metadata struct {
	Type         model.MessageType `json:"type"`
	Timestamp    int64             `json:"timestamp"`
	SenderNodeID string            `json:"sender_node_id"`
	Length       string            `json:"length"`
}

// PayloadLength returns Length as an integer.
func (m *Metadata) PayloadLength() (int, error) {
	length, err := strconv.Atoi(m.Length)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", m.Length, err)
	}
	return length, nil
}

// PluginEvent is the envelope published by the gossip-publisher-zmq plugin:
// metadata plus the raw message hex. Parsed is populated after ingestion.
type PluginEvent struct {
	Metadata Metadata       `json:"metadata"`
	RawHex   model.HexBytes `json:"raw_hex"`
	Parsed   model.Message  `json:"parsed,omitempty"`
}

// UnmarshalJSON decodes the envelope; the typed payload is re-parsed from
// raw_hex by the ingest pipeline rather than trusted from the wire.
func (e *PluginEvent) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Metadata Metadata       `json:"metadata"`
		RawHex   model.HexBytes `json:"raw_hex"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	e.Metadata = envelope.Metadata
	e.RawHex = envelope.RawHex
	e.Parsed = nil
	return nil
}

// Decode unmarshals a plugin event envelope.
func Decode(data []byte) (*PluginEvent, error) {
	evt := &PluginEvent{}
	if err := json.Unmarshal(data, evt); err != nil {
		return nil, fmt.Errorf("failed to decode plugin event: %w", err)
	}
	return evt, nil
}

// metadataConverter matches envelope map keys on the json tag, so the wire's
// snake_case keys land on the right fields.
var metadataConverter = toolbox.NewConverter("", "json")

// MetadataFromMap converts a generic decoded envelope map into Metadata.
func MetadataFromMap(aMap map[string]interface{}) (*Metadata, error) {
	metadata := &Metadata{}
	if err := metadataConverter.AssignConverted(metadata, aMap); err != nil {
		return nil, fmt.Errorf("failed to convert metadata: %w", err)
	}
	return metadata, nil
}

// PlatformMetadata describes a message flowing between ln-history platform
// services.
type PlatformMetadata struct {
	Type      model.MessageType `json:"type"`
	ID        string            `json:"id"`
	Timestamp int64             `json:"timestamp"`
}

// PlatformEvent is the intra-platform envelope.
type PlatformEvent struct {
	Metadata PlatformMetadata `json:"metadata"`
	RawHex   model.HexBytes   `json:"raw_hex"`
}

// NewPlatformEvent assigns a fresh ID and the current timestamp.
func NewPlatformEvent(msgType model.MessageType, raw []byte) *PlatformEvent {
	return &PlatformEvent{
		Metadata: PlatformMetadata{
			Type:      msgType,
			ID:        idgen.New(),
			Timestamp: clock.Now().Unix(),
		},
		RawHex: raw,
	}
}
