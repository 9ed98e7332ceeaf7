// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state owns the bridge's mutable stores: the controller access
// list, the shadow balance ledger, the incoming message registry and the
// claimable message store. One State value is constructed at process
// start and handed to every operation; nothing else may mutate the
// stores.
package state

import "github.com/luxfi/teleport"

// State aggregates the four mutable stores of one bridge instance.
type State struct {
	Controllers *AccessList
	Balances    *BalanceLedger
	Incoming    *MessageRegistry
	Claims      *ClaimStore
}

// New builds an empty State seeded with the bootstrap controllers.
func New(bootstrapControllers ...teleport.Address) *State {
	return &State{
		Controllers: NewAccessList(bootstrapControllers...),
		Balances:    NewBalanceLedger(),
		Incoming:    NewMessageRegistry(),
		Claims:      NewClaimStore(),
	}
}
