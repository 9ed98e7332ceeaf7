// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"bytes"
	"math/big"
	"sync"

	"github.com/luxfi/teleport"
)

// ClaimStore holds the pending claimable withdrawal records per L1 owner
// in insertion order. Records are appended when a burn has been dispatched
// and removed when the owner proves the claim on L1 (or a controller
// clears them).
type ClaimStore struct {
	mu      sync.RWMutex
	pending map[teleport.Address][]teleport.ClaimableMessage
}

// NewClaimStore builds an empty store.
func NewClaimStore() *ClaimStore {
	return &ClaimStore{
		pending: make(map[teleport.Address][]teleport.ClaimableMessage),
	}
}

// Enqueue appends a claimable message to its owner's pending list.
func (s *ClaimStore) Enqueue(msg teleport.ClaimableMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[msg.Owner] = append(s.pending[msg.Owner], msg.Copy())
}

// RemoveByHash removes the first pending message matching the message
// hash, the most specific removal key available.
func (s *ClaimStore) RemoveByHash(owner teleport.Address, hash teleport.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFirst(owner, func(m *teleport.ClaimableMessage) bool {
		return m.MsgHash == hash
	})
}

// RemoveByKey removes the first pending message carrying the opaque relay
// key.
func (s *ClaimStore) RemoveByKey(owner teleport.Address, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFirst(owner, func(m *teleport.ClaimableMessage) bool {
		return bytes.Equal(m.MsgKey, key)
	})
}

// RemoveByTokenAmount removes the first pending message matching token
// and amount. When two pending messages are indistinguishable by
// token+amount this fallback is lossy: which of them is removed is
// unspecified, but each call removes exactly one record.
func (s *ClaimStore) RemoveByTokenAmount(owner teleport.Address, token teleport.TokenID, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFirst(owner, func(m *teleport.ClaimableMessage) bool {
		return m.Token == token && m.Amount != nil && m.Amount.Cmp(amount) == 0
	})
}

func (s *ClaimStore) removeFirst(owner teleport.Address, match func(*teleport.ClaimableMessage) bool) error {
	msgs, ok := s.pending[owner]
	if !ok {
		return teleport.Errorf(teleport.CodeOther, "no claimable messages for owner %s", owner)
	}
	for i := range msgs {
		if match(&msgs[i]) {
			msgs = append(msgs[:i], msgs[i+1:]...)
			if len(msgs) == 0 {
				delete(s.pending, owner)
			} else {
				s.pending[owner] = msgs
			}
			return nil
		}
	}
	return teleport.Errorf(teleport.CodeOther, "claimable message not found for owner %s", owner)
}

// List returns the owner's pending messages in insertion order. An owner
// with nothing pending gets an empty list, not an error.
func (s *ClaimStore) List(owner teleport.Address) []teleport.ClaimableMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.pending[owner]
	out := make([]teleport.ClaimableMessage, 0, len(msgs))
	for i := range msgs {
		out = append(out, msgs[i].Copy())
	}
	return out
}

// take drains the store for a snapshot export.
func (s *ClaimStore) take() map[teleport.Address][]teleport.ClaimableMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.pending
	s.pending = make(map[teleport.Address][]teleport.ClaimableMessage)
	return pending
}

func (s *ClaimStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[teleport.Address][]teleport.ClaimableMessage)
}

func (s *ClaimStore) replace(pending map[teleport.Address][]teleport.ClaimableMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = pending
}
