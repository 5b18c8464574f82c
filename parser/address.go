package parser

import (
	"bytes"
	"fmt"
	"net/netip"

	"github.com/ln-history/lnhistory/model"
)

// parseAddress decodes a single address descriptor from r. On an unknown
// descriptor type or a truncated entry the reader position is restored and a
// nil address returned, so callers keep whatever addresses parsed so far.
func parseAddress(r *bytes.Reader) *model.Address {
	before := r.Size() - int64(r.Len())

	address, err := readAddress(r)
	if err != nil || address == nil {
		_, _ = r.Seek(before, 0)
		return nil
	}
	return address
}

func readAddress(r *bytes.Reader) (*model.Address, error) {
	typeByte, err := readExact(r, 1)
	if err != nil {
		return nil, err
	}

	address := &model.Address{Type: model.AddressType(typeByte[0])}
	switch address.Type {
	case model.AddressIPv4:
		raw, err := readExact(r, 4)
		if err != nil {
			return nil, err
		}
		addr, _ := netip.AddrFromSlice(raw)
		address.Addr = addr.String()
	case model.AddressIPv6:
		raw, err := readExact(r, 16)
		if err != nil {
			return nil, err
		}
		addr, _ := netip.AddrFromSlice(raw)
		address.Addr = fmt.Sprintf("[%s]", addr)
	case model.AddressTorV2:
		raw, err := readExact(r, 10)
		if err != nil {
			return nil, err
		}
		address.Addr = toBase32(raw) + ".onion"
	case model.AddressTorV3:
		raw, err := readExact(r, 35)
		if err != nil {
			return nil, err
		}
		address.Addr = toBase32(raw) + ".onion"
	case model.AddressDNS:
		length, err := readExact(r, 1)
		if err != nil {
			return nil, err
		}
		hostname, err := readExact(r, int(length[0]))
		if err != nil {
			return nil, err
		}
		address.Addr = string(hostname)
	default:
		return nil, nil
	}

	port, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	address.Port = port
	return address, nil
}

// parseAddresses consumes descriptors until the region is exhausted or an
// entry fails to parse.
func parseAddresses(region []byte) []model.Address {
	r := bytes.NewReader(region)
	var addresses []model.Address
	for r.Len() > 0 {
		address := parseAddress(r)
		if address == nil {
			break
		}
		addresses = append(addresses, *address)
	}
	return addresses
}
