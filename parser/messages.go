package parser

import (
	"bytes"
	"fmt"

	"github.com/ln-history/lnhistory/model"
)

// ParseChannelAnnouncement decodes a channel_announcement payload (without
// the 2-byte type prefix).
func ParseChannelAnnouncement(payload []byte) (*model.ChannelAnnouncement, error) {
	r := bytes.NewReader(payload)
	msg := &model.ChannelAnnouncement{}
	var err error

	if msg.NodeSignature1, err = readExact(r, 64); err != nil {
		return nil, fmt.Errorf("channel_announcement node_signature_1: %w", err)
	}
	if msg.NodeSignature2, err = readExact(r, 64); err != nil {
		return nil, fmt.Errorf("channel_announcement node_signature_2: %w", err)
	}
	if msg.BitcoinSignature1, err = readExact(r, 64); err != nil {
		return nil, fmt.Errorf("channel_announcement bitcoin_signature_1: %w", err)
	}
	if msg.BitcoinSignature2, err = readExact(r, 64); err != nil {
		return nil, fmt.Errorf("channel_announcement bitcoin_signature_2: %w", err)
	}
	featuresLen, err := readUint16(r)
	if err != nil {
		return nil, fmt.Errorf("channel_announcement features length: %w", err)
	}
	if msg.Features, err = readExact(r, int(featuresLen)); err != nil {
		return nil, fmt.Errorf("channel_announcement features: %w", err)
	}
	if msg.ChainHash, err = readExact(r, 32); err != nil {
		return nil, fmt.Errorf("channel_announcement chain_hash: %w", err)
	}
	scid, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("channel_announcement short_channel_id: %w", err)
	}
	msg.SCID = model.ShortChannelID(scid)
	if msg.NodeID1, err = readExact(r, 33); err != nil {
		return nil, fmt.Errorf("channel_announcement node_id_1: %w", err)
	}
	if msg.NodeID2, err = readExact(r, 33); err != nil {
		return nil, fmt.Errorf("channel_announcement node_id_2: %w", err)
	}
	if msg.BitcoinKey1, err = readExact(r, 33); err != nil {
		return nil, fmt.Errorf("channel_announcement bitcoin_key_1: %w", err)
	}
	if msg.BitcoinKey2, err = readExact(r, 33); err != nil {
		return nil, fmt.Errorf("channel_announcement bitcoin_key_2: %w", err)
	}
	return msg, nil
}

// ParseNodeAnnouncement decodes a node_announcement payload (without the
// 2-byte type prefix).
func ParseNodeAnnouncement(payload []byte) (*model.NodeAnnouncement, error) {
	r := bytes.NewReader(payload)
	msg := &model.NodeAnnouncement{}
	var err error

	if msg.Signature, err = readExact(r, 64); err != nil {
		return nil, fmt.Errorf("node_announcement signature: %w", err)
	}
	featuresLen, err := readUint16(r)
	if err != nil {
		return nil, fmt.Errorf("node_announcement features length: %w", err)
	}
	if msg.Features, err = readExact(r, int(featuresLen)); err != nil {
		return nil, fmt.Errorf("node_announcement features: %w", err)
	}
	if msg.Timestamp, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("node_announcement timestamp: %w", err)
	}
	if msg.NodeID, err = readExact(r, 33); err != nil {
		return nil, fmt.Errorf("node_announcement node_id: %w", err)
	}
	if msg.RGBColor, err = readExact(r, 3); err != nil {
		return nil, fmt.Errorf("node_announcement rgb_color: %w", err)
	}
	alias, err := readExact(r, 32)
	if err != nil {
		return nil, fmt.Errorf("node_announcement alias: %w", err)
	}
	msg.Alias = DecodeAlias(alias)
	addrLen, err := readUint16(r)
	if err != nil {
		return nil, fmt.Errorf("node_announcement addresses length: %w", err)
	}
	region, err := readExact(r, int(addrLen))
	if err != nil {
		return nil, fmt.Errorf("node_announcement addresses: %w", err)
	}
	msg.Addresses = parseAddresses(region)
	return msg, nil
}

// ParseChannelUpdate decodes a channel_update payload (without the 2-byte
// type prefix). htlc_maximum_msat is read only when message_flags bit 0 is
// set; otherwise the field stays nil.
func ParseChannelUpdate(payload []byte) (*model.ChannelUpdate, error) {
	r := bytes.NewReader(payload)
	msg := &model.ChannelUpdate{}
	var err error

	if msg.Signature, err = readExact(r, 64); err != nil {
		return nil, fmt.Errorf("channel_update signature: %w", err)
	}
	if msg.ChainHash, err = readExact(r, 32); err != nil {
		return nil, fmt.Errorf("channel_update chain_hash: %w", err)
	}
	scid, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("channel_update short_channel_id: %w", err)
	}
	msg.SCID = model.ShortChannelID(scid)
	if msg.Timestamp, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("channel_update timestamp: %w", err)
	}
	flags, err := readExact(r, 2)
	if err != nil {
		return nil, fmt.Errorf("channel_update flags: %w", err)
	}
	msg.MessageFlags, msg.ChannelFlags = flags[0], flags[1]
	if msg.CLTVExpiryDelta, err = readUint16(r); err != nil {
		return nil, fmt.Errorf("channel_update cltv_expiry_delta: %w", err)
	}
	if msg.HTLCMinimumMsat, err = readUint64(r); err != nil {
		return nil, fmt.Errorf("channel_update htlc_minimum_msat: %w", err)
	}
	if msg.FeeBaseMsat, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("channel_update fee_base_msat: %w", err)
	}
	if msg.FeeProportionalMillionths, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("channel_update fee_proportional_millionths: %w", err)
	}
	if msg.MessageFlags&0x1 != 0 {
		max, err := readUint64(r)
		if err != nil {
			return nil, fmt.Errorf("channel_update htlc_maximum_msat: %w", err)
		}
		msg.HTLCMaximumMsat = &max
	}
	return msg, nil
}
