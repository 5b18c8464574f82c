package model

// MessageType identifies a gossip wire message by its 2-byte big-endian
// type prefix.
type MessageType uint16

// Gossip message types defined by BOLT #7.
const (
	MsgChannelAnnouncement MessageType = 256
	MsgNodeAnnouncement    MessageType = 257
	MsgChannelUpdate       MessageType = 258
)

// Core Lightning gossip_store internal record types.
const (
	MsgChannelAmount       MessageType = 4101
	MsgPrivateUpdate       MessageType = 4102
	MsgDeleteChannel       MessageType = 4103
	MsgPrivateAnnouncement MessageType = 4104
	MsgStoreEnded          MessageType = 4105
	MsgChannelDying        MessageType = 4106
)

// GossipTypes contains the public gossip message types exchanged between
// Lightning nodes.
var GossipTypes = map[MessageType]bool{
	MsgChannelAnnouncement: true,
	MsgNodeAnnouncement:    true,
	MsgChannelUpdate:       true,
}

// CoreLightningTypes contains the Core Lightning specific record types that
// only appear inside a gossip_store file or a plugin event stream.
var CoreLightningTypes = map[MessageType]bool{
	MsgChannelAmount:       true,
	MsgPrivateUpdate:       true,
	MsgDeleteChannel:       true,
	MsgPrivateAnnouncement: true,
	MsgStoreEnded:          true,
	MsgChannelDying:        true,
}

// Known reports whether t belongs to either the public gossip set or the
// Core Lightning set.
func (t MessageType) Known() bool {
	return GossipTypes[t] || CoreLightningTypes[t]
}

func (t MessageType) String() string {
	switch t {
	case MsgChannelAnnouncement:
		return "channel_announcement"
	case MsgNodeAnnouncement:
		return "node_announcement"
	case MsgChannelUpdate:
		return "channel_update"
	case MsgChannelAmount:
		return "channel_amount"
	case MsgPrivateUpdate:
		return "private_channel_update"
	case MsgDeleteChannel:
		return "delete_channel"
	case MsgPrivateAnnouncement:
		return "private_channel_announcement"
	case MsgStoreEnded:
		return "gossip_store_ended"
	case MsgChannelDying:
		return "channel_dying"
	}
	return "unknown"
}
