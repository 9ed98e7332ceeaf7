// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/luxfi/geth/rlp"

	"github.com/luxfi/teleport"
)

// Snapshot is the single persisted artifact of a bridge instance: an
// atomic aggregate of all four stores, taken around a restart or upgrade
// boundary. No partial snapshot is valid. Entries are flattened into
// sorted lists so the RLP encoding is deterministic and stable across
// versions; claim lists keep their per-owner insertion order.
type Snapshot struct {
	Controllers []teleport.Address
	Balances    []BalanceEntry
	Messages    []MessageEntry
	Claims      []ClaimEntry
}

// BalanceEntry is one flattened (owner, token, amount) row.
type BalanceEntry struct {
	Owner  teleport.Address
	Token  teleport.TokenID
	Amount *big.Int
}

// MessageEntry is one flattened incoming-message row. MintTxID is zero
// for records that never reached the minted state.
type MessageEntry struct {
	Hash     teleport.Fingerprint
	Status   Status
	MintTxID *big.Int
}

// ClaimEntry is one flattened pending claim row.
type ClaimEntry struct {
	Owner   teleport.Address
	Message teleport.ClaimableMessage
}

// Export atomically takes ownership of the current contents of every
// store, leaving them empty, and returns them as one aggregate. It must
// not interleave with in-flight bridge operations; the caller guarantees
// exclusive access around the persistence boundary.
func (s *State) Export() *Snapshot {
	snap := &Snapshot{
		Controllers: s.Controllers.take(),
	}

	for owner, tokens := range s.Balances.take() {
		for token, amount := range tokens {
			snap.Balances = append(snap.Balances, BalanceEntry{
				Owner:  owner,
				Token:  token,
				Amount: amount,
			})
		}
	}
	sort.Slice(snap.Balances, func(i, j int) bool {
		a, b := &snap.Balances[i], &snap.Balances[j]
		if c := bytes.Compare(a.Owner[:], b.Owner[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(a.Token[:], b.Token[:]) < 0
	})

	for hash, rec := range s.Incoming.take() {
		txID := rec.MintTxID
		if txID == nil {
			txID = new(big.Int)
		}
		snap.Messages = append(snap.Messages, MessageEntry{
			Hash:     hash,
			Status:   rec.Status,
			MintTxID: txID,
		})
	}
	sort.Slice(snap.Messages, func(i, j int) bool {
		return bytes.Compare(snap.Messages[i].Hash[:], snap.Messages[j].Hash[:]) < 0
	})

	pending := s.Claims.take()
	owners := make([]teleport.Address, 0, len(pending))
	for owner := range pending {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool {
		return bytes.Compare(owners[i][:], owners[j][:]) < 0
	})
	for _, owner := range owners {
		for _, msg := range pending[owner] {
			if msg.Amount == nil {
				msg.Amount = new(big.Int)
			}
			snap.Claims = append(snap.Claims, ClaimEntry{Owner: owner, Message: msg})
		}
	}

	return snap
}

// Clear empties every store without returning the contents. Used for
// destructive resets only.
func (s *State) Clear() {
	s.Controllers.clear()
	s.Balances.clear()
	s.Incoming.clear()
	s.Claims.clear()
}

// Replace atomically installs a previously exported aggregate, discarding
// whatever the stores currently hold. Like Export it requires exclusive
// access.
func (s *State) Replace(snap *Snapshot) {
	s.Controllers.replace(snap.Controllers)

	balances := make(map[teleport.Address]map[teleport.TokenID]*big.Int, len(snap.Balances))
	for _, entry := range snap.Balances {
		tokens, ok := balances[entry.Owner]
		if !ok {
			tokens = make(map[teleport.TokenID]*big.Int)
			balances[entry.Owner] = tokens
		}
		amount := new(big.Int)
		if entry.Amount != nil {
			amount.Set(entry.Amount)
		}
		tokens[entry.Token] = amount
	}
	s.Balances.replace(balances)

	records := make(map[teleport.Fingerprint]MessageRecord, len(snap.Messages))
	for _, entry := range snap.Messages {
		rec := MessageRecord{Status: entry.Status}
		// Only minted records carry a transaction id; the zero placeholder
		// written by Export is not an outcome.
		if entry.Status == StatusConsumedAndMinted {
			rec.MintTxID = new(big.Int)
			if entry.MintTxID != nil {
				rec.MintTxID.Set(entry.MintTxID)
			}
		}
		records[entry.Hash] = rec
	}
	s.Incoming.replace(records)

	pending := make(map[teleport.Address][]teleport.ClaimableMessage)
	for _, entry := range snap.Claims {
		pending[entry.Owner] = append(pending[entry.Owner], entry.Message.Copy())
	}
	s.Claims.replace(pending)
}

// Bytes returns the RLP encoding of the snapshot.
func (snap *Snapshot) Bytes() ([]byte, error) {
	return rlp.EncodeToBytes(snap)
}

// ParseSnapshot decodes an RLP-encoded snapshot.
func ParseSnapshot(b []byte) (*Snapshot, error) {
	snap := new(Snapshot)
	if err := rlp.DecodeBytes(b, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
