// Package snapshot reconstructs the Lightning Network channel graph from a
// set of gossip messages valid at a point in time.
package snapshot

import (
	"sort"
	"time"

	"github.com/ln-history/lnhistory/model"
)

// Policy is the per-direction routing policy taken from the latest
// channel_update.
type Policy struct {
	Timestamp                 uint32  `json:"timestamp"`
	Disabled                  bool    `json:"disabled"`
	CLTVExpiryDelta           uint16  `json:"cltv_expiry_delta"`
	HTLCMinimumMsat           uint64  `json:"htlc_minimum_msat"`
	HTLCMaximumMsat           *uint64 `json:"htlc_maximum_msat,omitempty"`
	FeeBaseMsat               uint32  `json:"fee_base_msat"`
	FeeProportionalMillionths uint32  `json:"fee_proportional_millionths"`
}

// Channel is an announced channel with up to two directional policies.
type Channel struct {
	SCID     model.ShortChannelID `json:"scid"`
	NodeID1  model.HexBytes       `json:"node_id_1"`
	NodeID2  model.HexBytes       `json:"node_id_2"`
	Satoshis uint64               `json:"satoshis,omitempty"`
	Private  bool                 `json:"private,omitempty"`
	Dying    bool                 `json:"dying,omitempty"`
	// Policies[0] was issued by NodeID1, Policies[1] by NodeID2.
	Policies [2]*Policy `json:"policies"`
}

// Node is a network participant described by its latest node_announcement.
type Node struct {
	NodeID    model.HexBytes  `json:"node_id"`
	Alias     string          `json:"alias"`
	RGBColor  model.HexBytes  `json:"rgb_color"`
	Timestamp uint32          `json:"timestamp"`
	Addresses []model.Address `json:"addresses"`

	// announced distinguishes a node seen in a node_announcement from a
	// placeholder created for a channel endpoint.
	announced bool
}

// Snapshot is the network state at a point in time.
type Snapshot struct {
	At       time.Time
	nodes    map[string]*Node
	channels map[model.ShortChannelID]*Channel
	// lastAnnounced tracks the channel a bare channel_amount record applies
	// to; in a gossip_store the amount immediately follows its announcement.
	lastAnnounced *model.ShortChannelID
}

// New creates an empty snapshot stamped with at.
func New(at time.Time) *Snapshot {
	return &Snapshot{
		At:       at,
		nodes:    make(map[string]*Node),
		channels: make(map[model.ShortChannelID]*Channel),
	}
}

// Apply folds a parsed message into the snapshot. Announcements collapse on
// duplicates; updates and node announcements resolve by later timestamp,
// ties keeping the first seen.
func (s *Snapshot) Apply(msg model.Message) {
	switch m := msg.(type) {
	case *model.ChannelAnnouncement:
		s.applyAnnouncement(m, false, 0)
	case *model.PrivateChannelAnnouncement:
		s.applyAnnouncement(m.Announcement, true, m.Satoshis)
	case *model.ChannelAmount:
		if s.lastAnnounced != nil {
			if channel, ok := s.channels[*s.lastAnnounced]; ok {
				channel.Satoshis = m.Satoshis
			}
		}
	case *model.NodeAnnouncement:
		s.applyNode(m)
	case *model.ChannelUpdate:
		s.applyUpdate(m)
	case *model.PrivateChannelUpdate:
		s.applyUpdate(m.Update)
	case *model.DeleteChannel:
		delete(s.channels, m.SCID)
	case *model.ChannelDying:
		if channel, ok := s.channels[m.SCID]; ok {
			channel.Dying = true
		}
	case *model.GossipStoreEnded:
		// Store bookkeeping record; carries no network state.
	}
}

func (s *Snapshot) applyAnnouncement(m *model.ChannelAnnouncement, private bool, satoshis uint64) {
	scid := m.SCID
	s.lastAnnounced = &scid
	if _, ok := s.channels[scid]; ok {
		return
	}
	s.channels[scid] = &Channel{
		SCID:     scid,
		NodeID1:  m.NodeID1,
		NodeID2:  m.NodeID2,
		Private:  private,
		Satoshis: satoshis,
	}
	s.ensureNode(m.NodeID1)
	s.ensureNode(m.NodeID2)
}

func (s *Snapshot) applyNode(m *model.NodeAnnouncement) {
	key := m.NodeID.String()
	existing, ok := s.nodes[key]
	if ok && existing.announced && existing.Timestamp >= m.Timestamp {
		return
	}
	s.nodes[key] = &Node{
		NodeID:    m.NodeID,
		Alias:     m.Alias,
		RGBColor:  m.RGBColor,
		Timestamp: m.Timestamp,
		Addresses: m.Addresses,
		announced: true,
	}
}

func (s *Snapshot) applyUpdate(m *model.ChannelUpdate) {
	channel, ok := s.channels[m.SCID]
	if !ok {
		// Update without a prior announcement; keep a stub so the policy is
		// not lost when messages arrive out of order.
		channel = &Channel{SCID: m.SCID}
		s.channels[m.SCID] = channel
	}
	direction := m.Direction()
	if existing := channel.Policies[direction]; existing != nil && existing.Timestamp >= m.Timestamp {
		return
	}
	channel.Policies[direction] = &Policy{
		Timestamp:                 m.Timestamp,
		Disabled:                  m.Disabled(),
		CLTVExpiryDelta:           m.CLTVExpiryDelta,
		HTLCMinimumMsat:           m.HTLCMinimumMsat,
		HTLCMaximumMsat:           m.HTLCMaximumMsat,
		FeeBaseMsat:               m.FeeBaseMsat,
		FeeProportionalMillionths: m.FeeProportionalMillionths,
	}
}

func (s *Snapshot) ensureNode(nodeID model.HexBytes) {
	key := nodeID.String()
	if _, ok := s.nodes[key]; !ok {
		s.nodes[key] = &Node{NodeID: nodeID}
	}
}

// Node returns the node with the given hex id, or nil.
func (s *Snapshot) Node(nodeID string) *Node { return s.nodes[nodeID] }

// Channel returns the channel with the given scid, or nil.
func (s *Snapshot) Channel(scid model.ShortChannelID) *Channel { return s.channels[scid] }

// Nodes returns every node ordered by node id.
func (s *Snapshot) Nodes() []*Node {
	ret := make([]*Node, 0, len(s.nodes))
	for _, node := range s.nodes {
		ret = append(ret, node)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].NodeID.String() < ret[j].NodeID.String() })
	return ret
}

// Channels returns every channel ordered by scid.
func (s *Snapshot) Channels() []*Channel {
	ret := make([]*Channel, 0, len(s.channels))
	for _, channel := range s.channels {
		ret = append(ret, channel)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].SCID < ret[j].SCID })
	return ret
}

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// ChannelCount returns the number of channels.
func (s *Snapshot) ChannelCount() int { return len(s.channels) }
