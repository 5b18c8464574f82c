package parser

import (
	"bytes"
	"fmt"

	"github.com/ln-history/lnhistory/model"
)

// Parsers for the Core Lightning gossip_store record payloads.

func ParseChannelAmount(payload []byte) (*model.ChannelAmount, error) {
	r := bytes.NewReader(payload)
	satoshis, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("channel_amount satoshis: %w", err)
	}
	return &model.ChannelAmount{Satoshis: satoshis}, nil
}

func ParsePrivateChannelAnnouncement(payload []byte) (*model.PrivateChannelAnnouncement, error) {
	r := bytes.NewReader(payload)
	satoshis, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("private_channel satoshis: %w", err)
	}
	length, err := readUint16(r)
	if err != nil {
		return nil, fmt.Errorf("private_channel announcement length: %w", err)
	}
	inner, err := readExact(r, int(length))
	if err != nil {
		return nil, fmt.Errorf("private_channel announcement: %w", err)
	}
	stripped, err := StripKnownMessageType(inner)
	if err != nil {
		return nil, fmt.Errorf("private_channel announcement: %w", err)
	}
	announcement, err := ParseChannelAnnouncement(stripped)
	if err != nil {
		return nil, fmt.Errorf("private_channel announcement: %w", err)
	}
	return &model.PrivateChannelAnnouncement{Satoshis: satoshis, Announcement: announcement}, nil
}

func ParsePrivateChannelUpdate(payload []byte) (*model.PrivateChannelUpdate, error) {
	r := bytes.NewReader(payload)
	length, err := readUint16(r)
	if err != nil {
		return nil, fmt.Errorf("private_update length: %w", err)
	}
	inner, err := readExact(r, int(length))
	if err != nil {
		return nil, fmt.Errorf("private_update payload: %w", err)
	}
	stripped, err := StripKnownMessageType(inner)
	if err != nil {
		return nil, fmt.Errorf("private_update payload: %w", err)
	}
	update, err := ParseChannelUpdate(stripped)
	if err != nil {
		return nil, fmt.Errorf("private_update payload: %w", err)
	}
	return &model.PrivateChannelUpdate{Update: update}, nil
}

func ParseDeleteChannel(payload []byte) (*model.DeleteChannel, error) {
	r := bytes.NewReader(payload)
	scid, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("delete_channel scid: %w", err)
	}
	return &model.DeleteChannel{SCID: model.ShortChannelID(scid)}, nil
}

func ParseGossipStoreEnded(payload []byte) (*model.GossipStoreEnded, error) {
	r := bytes.NewReader(payload)
	offset, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("gossip_store_ended offset: %w", err)
	}
	return &model.GossipStoreEnded{EquivalentOffset: offset}, nil
}

func ParseChannelDying(payload []byte) (*model.ChannelDying, error) {
	r := bytes.NewReader(payload)
	scid, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("channel_dying scid: %w", err)
	}
	blockHeight, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("channel_dying blockheight: %w", err)
	}
	return &model.ChannelDying{SCID: model.ShortChannelID(scid), BlockHeight: blockHeight}, nil
}
