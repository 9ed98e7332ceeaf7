// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"bytes"
	"errors"
	"math/big"
	"sort"
	"sync"

	"github.com/luxfi/teleport"
)

// ErrNoBalances is returned by List for an owner with no balance records.
// It is distinct from a zero balance on a known token.
var ErrNoBalances = errors.New("no balance records for owner")

// TokenBalance is one (token, amount) pair of an owner's ledger view.
type TokenBalance struct {
	Token  teleport.TokenID
	Amount *big.Int
}

// BalanceLedger tracks the bridge's shadow record of bridged value per
// (owner, token). It is auxiliary accounting: the token canister's own
// ledger stays the authoritative source of spendable balance. Amounts are
// always non-negative; any computed decrease is guarded and fails closed
// instead of wrapping or storing a negative value.
type BalanceLedger struct {
	mu       sync.RWMutex
	balances map[teleport.Address]map[teleport.TokenID]*big.Int
}

// NewBalanceLedger builds an empty ledger.
func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{
		balances: make(map[teleport.Address]map[teleport.TokenID]*big.Int),
	}
}

// Add increases the stored amount, creating a zero-initialized entry
// first if absent. It never fails for a non-negative amount.
func (l *BalanceLedger) Add(owner teleport.Address, token teleport.TokenID, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return teleport.Errorf(teleport.CodeOther, "balance increment must be a non-negative amount")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tokens, ok := l.balances[owner]
	if !ok {
		tokens = make(map[teleport.TokenID]*big.Int)
		l.balances[owner] = tokens
	}
	current, ok := tokens[token]
	if !ok {
		current = new(big.Int)
		tokens[token] = current
	}
	current.Add(current, amount)
	return nil
}

// Set replaces the stored amount unconditionally. Negative amounts are an
// invariant violation and are rejected before any mutation.
func (l *BalanceLedger) Set(owner teleport.Address, token teleport.TokenID, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return teleport.Errorf(teleport.CodeInsufficientBalance, "refusing to store negative balance for owner %s", owner)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tokens, ok := l.balances[owner]
	if !ok {
		tokens = make(map[teleport.TokenID]*big.Int)
		l.balances[owner] = tokens
	}
	tokens[token] = new(big.Int).Set(amount)
	return nil
}

// Deduct decreases the stored amount, failing with an insufficient
// balance error and leaving the prior value intact if the result would go
// negative.
func (l *BalanceLedger) Deduct(owner teleport.Address, token teleport.TokenID, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return teleport.Errorf(teleport.CodeOther, "balance decrement must be a non-negative amount")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.balances[owner][token]
	if !ok {
		current = new(big.Int)
	}
	if current.Cmp(amount) < 0 {
		return teleport.Errorf(
			teleport.CodeInsufficientBalance,
			"shadow balance %s of token %s is below decrement %s", current, token, amount,
		)
	}

	tokens, ok := l.balances[owner]
	if !ok {
		tokens = make(map[teleport.TokenID]*big.Int)
		l.balances[owner] = tokens
	}
	tokens[token] = new(big.Int).Sub(current, amount)
	return nil
}

// Get returns the stored amount, or zero if absent. Absence is a valid,
// common state, not an error.
func (l *BalanceLedger) Get(owner teleport.Address, token teleport.TokenID) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if amount, ok := l.balances[owner][token]; ok {
		return new(big.Int).Set(amount)
	}
	return new(big.Int)
}

// List returns all (token, amount) pairs for an owner, sorted by token
// for deterministic output, or ErrNoBalances when the owner has no
// records at all.
func (l *BalanceLedger) List(owner teleport.Address) ([]TokenBalance, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tokens, ok := l.balances[owner]
	if !ok {
		return nil, ErrNoBalances
	}

	out := make([]TokenBalance, 0, len(tokens))
	for token, amount := range tokens {
		out = append(out, TokenBalance{Token: token, Amount: new(big.Int).Set(amount)})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Token[:], out[j].Token[:]) < 0
	})
	return out, nil
}

// take drains the ledger for a snapshot export.
func (l *BalanceLedger) take() map[teleport.Address]map[teleport.TokenID]*big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	balances := l.balances
	l.balances = make(map[teleport.Address]map[teleport.TokenID]*big.Int)
	return balances
}

func (l *BalanceLedger) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances = make(map[teleport.Address]map[teleport.TokenID]*big.Int)
}

func (l *BalanceLedger) replace(balances map[teleport.Address]map[teleport.TokenID]*big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances = balances
}
