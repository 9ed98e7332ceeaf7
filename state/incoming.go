// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"math/big"
	"sync"

	"github.com/luxfi/teleport"
)

// Status is the processing state of an incoming cross-chain message.
//
// The happy path advances Consuming -> ConsumedNotMinted ->
// ConsumedAndMinted; any step may instead record StatusFailed, which is
// terminal until an operator removes the record and re-delivers. Normal
// processing only moves a status forward; Remove is the operator
// correction path.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusConsuming
	StatusConsumedNotMinted
	StatusConsumedAndMinted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConsuming:
		return "consuming"
	case StatusConsumedNotMinted:
		return "consumed-not-minted"
	case StatusConsumedAndMinted:
		return "consumed-and-minted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MessageRecord is what the registry stores per fingerprint. MintTxID is
// set only once the mint has been confirmed, so a redelivered message can
// be answered with the original outcome.
type MessageRecord struct {
	Status   Status
	MintTxID *big.Int
}

// MessageRegistry deduplicates incoming messages by fingerprint. The
// registration test-and-set is a single non-suspending step, which is
// what makes it a safe idempotency gate between interleaved operations.
type MessageRegistry struct {
	mu      sync.RWMutex
	records map[teleport.Fingerprint]MessageRecord
}

// NewMessageRegistry builds an empty registry.
func NewMessageRegistry() *MessageRegistry {
	return &MessageRegistry{
		records: make(map[teleport.Fingerprint]MessageRecord),
	}
}

// RegisterIfAbsent records the fingerprint as Consuming if it has never
// been seen, and reports whether it was newly inserted. A fingerprint
// already present is never re-inserted.
func (r *MessageRegistry) RegisterIfAbsent(fp teleport.Fingerprint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[fp]; ok {
		return false
	}
	r.records[fp] = MessageRecord{Status: StatusConsuming}
	return true
}

// Status returns the record for a fingerprint and whether it exists.
func (r *MessageRegistry) Status(fp teleport.Fingerprint) (MessageRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[fp]
	if rec.MintTxID != nil {
		rec.MintTxID = new(big.Int).Set(rec.MintTxID)
	}
	return rec, ok
}

// SetStatus updates the processing status of a known fingerprint.
func (r *MessageRegistry) SetStatus(fp teleport.Fingerprint, status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.records[fp]
	rec.Status = status
	r.records[fp] = rec
}

// SetMinted marks the terminal success state and records the mint
// transaction id returned by the token canister.
func (r *MessageRegistry) SetMinted(fp teleport.Fingerprint, txID *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[fp] = MessageRecord{
		Status:   StatusConsumedAndMinted,
		MintTxID: new(big.Int).Set(txID),
	}
}

// Remove deletes a record, reporting whether it existed. This is the
// operator path for retrying a failed message.
func (r *MessageRegistry) Remove(fp teleport.Fingerprint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[fp]; !ok {
		return false
	}
	delete(r.records, fp)
	return true
}

// take drains the registry for a snapshot export.
func (r *MessageRegistry) take() map[teleport.Fingerprint]MessageRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.records
	r.records = make(map[teleport.Fingerprint]MessageRecord)
	return records
}

func (r *MessageRegistry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[teleport.Fingerprint]MessageRecord)
}

func (r *MessageRegistry) replace(records map[teleport.Fingerprint]MessageRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = records
}
