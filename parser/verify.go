package parser

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Gossip signatures are 64-byte compact R||S values over the double-SHA256
// of the message remainder following the signature fields (BOLT #7).

func doubleSHA256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// VerifySignature checks a 64-byte compact signature by a 33-byte compressed
// public key over the double-SHA256 of signed.
func VerifySignature(signature, publicKey, signed []byte) error {
	if len(signature) != 64 {
		return fmt.Errorf("signature must be 64 bytes, got %d", len(signature))
	}
	pubKey, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow {
		return fmt.Errorf("signature r overflows the curve order")
	}
	if overflow := s.SetByteSlice(signature[32:]); overflow {
		return fmt.Errorf("signature s overflows the curve order")
	}

	if !ecdsa.NewSignature(&r, &s).Verify(doubleSHA256(signed), pubKey) {
		return fmt.Errorf("signature verification failed")
	}
	return nil
}

// VerifyNodeAnnouncement checks the announcement signature of a raw prefixed
// node_announcement message.
func VerifyNodeAnnouncement(raw []byte) error {
	msg, err := ParseNodeAnnouncement(stripForVerify(raw))
	if err != nil {
		return err
	}
	return VerifySignature(msg.Signature, msg.NodeID, signedRegion(raw, 64))
}

// VerifyChannelUpdate checks the update signature of a raw prefixed
// channel_update originated by the node that owns nodeID for its direction.
func VerifyChannelUpdate(raw, nodeID []byte) error {
	msg, err := ParseChannelUpdate(stripForVerify(raw))
	if err != nil {
		return err
	}
	return VerifySignature(msg.Signature, nodeID, signedRegion(raw, 64))
}

// VerifyChannelAnnouncement checks all four signatures of a raw prefixed
// channel_announcement.
func VerifyChannelAnnouncement(raw []byte) error {
	msg, err := ParseChannelAnnouncement(stripForVerify(raw))
	if err != nil {
		return err
	}
	signed := signedRegion(raw, 4*64)
	if err := VerifySignature(msg.NodeSignature1, msg.NodeID1, signed); err != nil {
		return fmt.Errorf("node_signature_1: %w", err)
	}
	if err := VerifySignature(msg.NodeSignature2, msg.NodeID2, signed); err != nil {
		return fmt.Errorf("node_signature_2: %w", err)
	}
	if err := VerifySignature(msg.BitcoinSignature1, msg.BitcoinKey1, signed); err != nil {
		return fmt.Errorf("bitcoin_signature_1: %w", err)
	}
	if err := VerifySignature(msg.BitcoinSignature2, msg.BitcoinKey2, signed); err != nil {
		return fmt.Errorf("bitcoin_signature_2: %w", err)
	}
	return nil
}

// stripForVerify removes a known 2-byte prefix; verification helpers accept
// both prefixed and bare payloads.
func stripForVerify(raw []byte) []byte {
	if stripped, err := StripKnownMessageType(raw); err == nil {
		return stripped
	}
	return raw
}

// signedRegion returns the message remainder following the signature fields.
func signedRegion(raw []byte, signatureBytes int) []byte {
	payload := stripForVerify(raw)
	if len(payload) <= signatureBytes {
		return nil
	}
	return payload[signatureBytes:]
}
