package model

// Message is implemented by every parsed gossip payload.
type Message interface {
	// Type returns the 2-byte wire type the payload was parsed from.
	Type() MessageType
}

// ChannelAnnouncement is the BOLT #7 channel_announcement payload (type 256).
type ChannelAnnouncement struct {
	NodeSignature1    HexBytes       `json:"node_signature_1"`
	NodeSignature2    HexBytes       `json:"node_signature_2"`
	BitcoinSignature1 HexBytes       `json:"bitcoin_signature_1"`
	BitcoinSignature2 HexBytes       `json:"bitcoin_signature_2"`
	Features          HexBytes       `json:"features"`
	ChainHash         HexBytes       `json:"chain_hash"`
	SCID              ShortChannelID `json:"scid"`
	NodeID1           HexBytes       `json:"node_id_1"`
	NodeID2           HexBytes       `json:"node_id_2"`
	BitcoinKey1       HexBytes       `json:"bitcoin_key_1"`
	BitcoinKey2       HexBytes       `json:"bitcoin_key_2"`
}

func (m *ChannelAnnouncement) Type() MessageType { return MsgChannelAnnouncement }

// NodeAnnouncement is the BOLT #7 node_announcement payload (type 257).
type NodeAnnouncement struct {
	Signature HexBytes  `json:"signature"`
	Features  HexBytes  `json:"features"`
	Timestamp uint32    `json:"timestamp"`
	NodeID    HexBytes  `json:"node_id"`
	RGBColor  HexBytes  `json:"rgb_color"`
	Alias     string    `json:"alias"`
	Addresses []Address `json:"addresses"`
}

func (m *NodeAnnouncement) Type() MessageType { return MsgNodeAnnouncement }

// ChannelUpdate is the BOLT #7 channel_update payload (type 258).
// HTLCMaximumMsat is present only when bit 0 of MessageFlags is set.
type ChannelUpdate struct {
	Signature                 HexBytes       `json:"signature"`
	ChainHash                 HexBytes       `json:"chain_hash"`
	SCID                      ShortChannelID `json:"scid"`
	Timestamp                 uint32         `json:"timestamp"`
	MessageFlags              uint8          `json:"message_flags"`
	ChannelFlags              uint8          `json:"channel_flags"`
	CLTVExpiryDelta           uint16         `json:"cltv_expiry_delta"`
	HTLCMinimumMsat           uint64         `json:"htlc_minimum_msat"`
	FeeBaseMsat               uint32         `json:"fee_base_msat"`
	FeeProportionalMillionths uint32         `json:"fee_proportional_millionths"`
	HTLCMaximumMsat           *uint64        `json:"htlc_maximum_msat,omitempty"`
}

func (m *ChannelUpdate) Type() MessageType { return MsgChannelUpdate }

// Direction returns 0 when the update was issued by node_id_1, 1 when issued
// by node_id_2 (channel_flags bit 0).
func (m *ChannelUpdate) Direction() int { return int(m.ChannelFlags & 0x1) }

// Disabled reports whether the channel is flagged disabled for this
// direction (channel_flags bit 1).
func (m *ChannelUpdate) Disabled() bool { return m.ChannelFlags&0x2 != 0 }
