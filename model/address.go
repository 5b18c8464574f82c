package model

import "fmt"

// AddressType identifies the encoding of a node address entry inside a
// node_announcement, per BOLT #7.
type AddressType uint8

const (
	AddressIPv4  AddressType = 1
	AddressIPv6  AddressType = 2
	AddressTorV2 AddressType = 3
	AddressTorV3 AddressType = 4
	AddressDNS   AddressType = 5
)

// Name returns the descriptor name for the address type.
func (t AddressType) Name() string {
	switch t {
	case AddressIPv4:
		return "ipv4"
	case AddressIPv6:
		return "ipv6"
	case AddressTorV2:
		return "torv2"
	case AddressTorV3:
		return "torv3"
	case AddressDNS:
		return "dns"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// Address is a single network endpoint advertised by a node.
type Address struct {
	Type AddressType `json:"type"`
	Addr string      `json:"addr"`
	Port uint16      `json:"port"`
}

func (a *Address) String() string {
	return fmt.Sprintf("%s:%d", a.Addr, a.Port)
}
