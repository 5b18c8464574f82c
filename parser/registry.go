package parser

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/ln-history/lnhistory/model"
	"github.com/viant/x"
)

// ParseFunc decodes a payload (without the 2-byte type prefix) into its
// typed message.
type ParseFunc func(payload []byte) (model.Message, error)

// Registry maps wire types to their Go types and parse functions. Callers
// may register additional types, e.g. experimental gossip extensions.
type Registry struct {
	types   *x.Registry
	parsers map[model.MessageType]ParseFunc
	mux     sync.RWMutex
}

// NewRegistry creates a registry pre-populated with every known gossip and
// Core Lightning message type.
func NewRegistry() *Registry {
	ret := &Registry{
		types:   x.NewRegistry(),
		parsers: make(map[model.MessageType]ParseFunc),
	}
	ret.Register(model.MsgChannelAnnouncement, reflect.TypeOf(model.ChannelAnnouncement{}), func(payload []byte) (model.Message, error) {
		return ParseChannelAnnouncement(payload)
	})
	ret.Register(model.MsgNodeAnnouncement, reflect.TypeOf(model.NodeAnnouncement{}), func(payload []byte) (model.Message, error) {
		return ParseNodeAnnouncement(payload)
	})
	ret.Register(model.MsgChannelUpdate, reflect.TypeOf(model.ChannelUpdate{}), func(payload []byte) (model.Message, error) {
		return ParseChannelUpdate(payload)
	})
	ret.Register(model.MsgChannelAmount, reflect.TypeOf(model.ChannelAmount{}), func(payload []byte) (model.Message, error) {
		return ParseChannelAmount(payload)
	})
	ret.Register(model.MsgPrivateAnnouncement, reflect.TypeOf(model.PrivateChannelAnnouncement{}), func(payload []byte) (model.Message, error) {
		return ParsePrivateChannelAnnouncement(payload)
	})
	ret.Register(model.MsgPrivateUpdate, reflect.TypeOf(model.PrivateChannelUpdate{}), func(payload []byte) (model.Message, error) {
		return ParsePrivateChannelUpdate(payload)
	})
	ret.Register(model.MsgDeleteChannel, reflect.TypeOf(model.DeleteChannel{}), func(payload []byte) (model.Message, error) {
		return ParseDeleteChannel(payload)
	})
	ret.Register(model.MsgStoreEnded, reflect.TypeOf(model.GossipStoreEnded{}), func(payload []byte) (model.Message, error) {
		return ParseGossipStoreEnded(payload)
	})
	ret.Register(model.MsgChannelDying, reflect.TypeOf(model.ChannelDying{}), func(payload []byte) (model.Message, error) {
		return ParseChannelDying(payload)
	})
	return ret
}

// Register adds or replaces the binding for a wire type.
func (r *Registry) Register(msgType model.MessageType, goType reflect.Type, parse ParseFunc) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.types.Register(x.NewType(goType, x.WithName(msgType.String())))
	r.parsers[msgType] = parse
}

// LookupType returns the registered Go type for a wire type name.
func (r *Registry) LookupType(name string) *x.Type {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.types.Lookup(name)
}

// Parse decodes a payload that has already been stripped of its prefix.
func (r *Registry) Parse(msgType model.MessageType, payload []byte) (model.Message, error) {
	r.mux.RLock()
	parse, ok := r.parsers[msgType]
	r.mux.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown message type %d", msgType)
	}
	return parse(payload)
}

// ParseMessage decodes a raw message including its 2-byte type prefix.
func (r *Registry) ParseMessage(raw []byte) (model.Message, error) {
	msgType, known, err := MessageTypeOf(raw)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, fmt.Errorf("unknown message type prefix %x", raw[:2])
	}
	return r.Parse(msgType, raw[2:])
}

var defaultRegistry = NewRegistry()

// ParseMessage decodes a raw prefixed message using the default registry.
func ParseMessage(raw []byte) (model.Message, error) {
	return defaultRegistry.ParseMessage(raw)
}
