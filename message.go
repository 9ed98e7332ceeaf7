// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package teleport implements the bookkeeping core of a two-way token
// bridge between an L1 ledger and L2 token canisters: message
// fingerprinting and deduplication, shadow balances, claimable withdrawal
// records, and the burn/mint orchestration protocol built on top of them.
package teleport

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
)

// Addresses, token identifiers and message fingerprints share one opaque
// 32-byte identifier type regardless of origin chain. Shorter raw forms
// (20-byte L1 addresses, variable-length principals) are left-padded into
// it, so the in-memory bytes are exactly the 32-byte big-endian word the
// fingerprint encoding uses. Equality is byte-exact.
type (
	Address     = ids.ID
	TokenID     = ids.ID
	Fingerprint = ids.ID
)

// InboundMessage is an L1-originated payload handed to the bridge by the
// relay. Proof validation happens upstream; by the time a message reaches
// this type it is assumed authentic but not yet deduplicated.
type InboundMessage struct {
	// Sender is the L1-side contract that emitted the event.
	Sender Address
	// Recipient is the L2 token canister the message is addressed to.
	Recipient TokenID
	// Nonce is the L1 event nonce used for replay protection.
	Nonce uint64
	// Payload is the ordered sequence of 256-bit payload words.
	Payload []*uint256.Int
}

// Fingerprint returns the canonical dedup key of the message.
func (m *InboundMessage) Fingerprint() Fingerprint {
	return HashMessage(m.Sender, m.Recipient, m.Nonce, m.Payload)
}

// ClaimableMessage records value that has left the L2 ledger and is
// awaiting pickup on L1.
type ClaimableMessage struct {
	// Owner is the L1 address entitled to the claim.
	Owner Address
	// MsgHash identifies the originating outbound message. It is the most
	// specific removal key; token+amount removal is a lossy fallback.
	MsgHash Fingerprint
	// MsgKey is an optional opaque key assigned by the relay.
	MsgKey []byte
	// Token identifies the bridged token.
	Token TokenID
	// Amount is the bridged amount.
	Amount *big.Int
}

// Copy returns a deep copy so callers cannot mutate stored records.
func (m *ClaimableMessage) Copy() ClaimableMessage {
	clone := *m
	clone.MsgKey = append([]byte(nil), m.MsgKey...)
	if m.Amount != nil {
		clone.Amount = new(big.Int).Set(m.Amount)
	}
	return clone
}
