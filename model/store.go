package model

// Core Lightning gossip_store record payloads. These never travel between
// nodes; they appear only in the store file and in plugin event streams.

// ChannelAmount carries the funding amount recorded right after a
// channel_announcement in the store (type 4101).
type ChannelAmount struct {
	Satoshis uint64 `json:"satoshis"`
}

func (m *ChannelAmount) Type() MessageType { return MsgChannelAmount }

// PrivateChannelAnnouncement wraps an unannounced channel's announcement
// together with its funding amount (type 4104).
type PrivateChannelAnnouncement struct {
	Satoshis     uint64               `json:"satoshis"`
	Announcement *ChannelAnnouncement `json:"announcement"`
}

func (m *PrivateChannelAnnouncement) Type() MessageType { return MsgPrivateAnnouncement }

// PrivateChannelUpdate wraps a channel_update for an unannounced channel
// (type 4102).
type PrivateChannelUpdate struct {
	Update *ChannelUpdate `json:"update"`
}

func (m *PrivateChannelUpdate) Type() MessageType { return MsgPrivateUpdate }

// DeleteChannel marks a channel as removed from the store (type 4103).
type DeleteChannel struct {
	SCID ShortChannelID `json:"scid"`
}

func (m *DeleteChannel) Type() MessageType { return MsgDeleteChannel }

// GossipStoreEnded terminates a store file that has been compacted; the
// reader should reopen and continue at EquivalentOffset (type 4105).
type GossipStoreEnded struct {
	EquivalentOffset uint64 `json:"equivalent_offset"`
}

func (m *GossipStoreEnded) Type() MessageType { return MsgStoreEnded }

// ChannelDying announces that a channel's funding output was spent and the
// channel will be deleted once the blockheight is buried (type 4106).
type ChannelDying struct {
	SCID        ShortChannelID `json:"scid"`
	BlockHeight uint32         `json:"blockheight"`
}

func (m *ChannelDying) Type() MessageType { return MsgChannelDying }
