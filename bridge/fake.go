// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/holiman/uint256"

	"github.com/luxfi/teleport"
)

// FakeTokenBackend is a test implementation of TokenBackend backed by an
// in-memory ledger. Per-step error hooks let tests fail individual
// workflow stages.
type FakeTokenBackend struct {
	mu       sync.Mutex
	balances map[teleport.TokenID]map[teleport.Address]*big.Int
	nextTxID uint64

	NameErr         error
	TransferFromErr error
	BurnErr         error
	MintErr         error

	// MintRecipient receives minted value; tests set it to the address
	// they expect the L1 payload to credit.
	MintRecipient teleport.Address
}

// NewFakeTokenBackend returns an empty fake ledger.
func NewFakeTokenBackend() *FakeTokenBackend {
	return &FakeTokenBackend{
		balances: make(map[teleport.TokenID]map[teleport.Address]*big.Int),
		nextTxID: 1,
	}
}

// Credit seeds the fake ledger for tests.
func (f *FakeTokenBackend) Credit(token teleport.TokenID, owner teleport.Address, amount *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.add(token, owner, amount)
}

// BalanceOf reads the fake ledger.
func (f *FakeTokenBackend) BalanceOf(token teleport.TokenID, owner teleport.Address) *big.Int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[token][owner]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (f *FakeTokenBackend) Name(context.Context, teleport.TokenID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NameErr != nil {
		return "", f.NameErr
	}
	return "Fake Wrapped Token", nil
}

func (f *FakeTokenBackend) TransferFrom(
	_ context.Context,
	token teleport.TokenID,
	from, to teleport.Address,
	amount *big.Int,
) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TransferFromErr != nil {
		return nil, f.TransferFromErr
	}
	if err := f.deduct(token, from, amount); err != nil {
		return nil, err
	}
	f.add(token, to, amount)
	return f.txID(), nil
}

func (f *FakeTokenBackend) Burn(_ context.Context, token teleport.TokenID, amount *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.BurnErr != nil {
		return nil, f.BurnErr
	}
	// The bridge burns from its own custody; the fake tracks that as the
	// zero address having already received the transfer.
	return f.txID(), nil
}

func (f *FakeTokenBackend) Mint(
	_ context.Context,
	token teleport.TokenID,
	_ uint64,
	payload []*uint256.Int,
) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MintErr != nil {
		return nil, f.MintErr
	}
	if len(payload) > 0 {
		f.add(token, f.MintRecipient, payload[len(payload)-1].ToBig())
	}
	return f.txID(), nil
}

func (f *FakeTokenBackend) add(token teleport.TokenID, owner teleport.Address, amount *big.Int) {
	owners, ok := f.balances[token]
	if !ok {
		owners = make(map[teleport.Address]*big.Int)
		f.balances[token] = owners
	}
	prev, ok := owners[owner]
	if !ok {
		prev = new(big.Int)
		owners[owner] = prev
	}
	prev.Add(prev, amount)
}

func (f *FakeTokenBackend) deduct(token teleport.TokenID, owner teleport.Address, amount *big.Int) error {
	prev, ok := f.balances[token][owner]
	if !ok || prev.Cmp(amount) < 0 {
		return teleport.Errorf(teleport.CodeInsufficientBalance, "account %s holds less than %s", owner, amount)
	}
	prev.Sub(prev, amount)
	return nil
}

func (f *FakeTokenBackend) txID() *big.Int {
	id := new(big.Int).SetUint64(f.nextTxID)
	f.nextTxID++
	return id
}

// FakeRelay is a test implementation of RelayBackend that records every
// dispatched message.
type FakeRelay struct {
	mu      sync.Mutex
	SendErr error
	// FailFirst makes that many leading sends fail before succeeding,
	// independent of SendErr.
	FailFirst int

	sent []SentMessage
}

// SentMessage is one message captured by FakeRelay.
type SentMessage struct {
	Destination teleport.Address
	Payload     []*uint256.Int
}

func (r *FakeRelay) SendMessage(_ context.Context, destination teleport.Address, payload []*uint256.Int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SendErr != nil {
		return false, r.SendErr
	}
	if r.FailFirst > 0 {
		r.FailFirst--
		return false, errors.New("relay transiently unavailable")
	}
	r.sent = append(r.sent, SentMessage{Destination: destination, Payload: payload})
	return true, nil
}

// Sent returns the messages dispatched so far.
func (r *FakeRelay) Sent() []SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentMessage(nil), r.sent...)
}
