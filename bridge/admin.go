// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"math/big"

	"github.com/luxfi/log"

	"github.com/luxfi/teleport"
	"github.com/luxfi/teleport/state"
)

// AddController authorizes a new controller. Only an existing controller
// may call this.
func (o *Orchestrator) AddController(caller, controller teleport.Address) error {
	if err := o.state.Controllers.Authorize(caller, controller); err != nil {
		return err
	}
	o.log.Info("controller added",
		log.Stringer("caller", caller),
		log.Stringer("controller", controller),
	)
	return nil
}

// Controllers lists the current controller set.
func (o *Orchestrator) Controllers() []teleport.Address {
	return o.state.Controllers.Controllers()
}

// Balance reports the shadow balance of owner for token.
func (o *Orchestrator) Balance(owner teleport.Address, token teleport.TokenID) *big.Int {
	return o.state.Balances.Get(owner, token)
}

// Balances lists all shadow balances recorded for owner.
func (o *Orchestrator) Balances(owner teleport.Address) ([]state.TokenBalance, error) {
	return o.state.Balances.List(owner)
}

// Claims lists the claimable withdrawals queued for owner.
func (o *Orchestrator) Claims(owner teleport.Address) []teleport.ClaimableMessage {
	return o.state.Claims.List(owner)
}

// MessageStatus reports the processing record for a message fingerprint.
func (o *Orchestrator) MessageStatus(fp teleport.Fingerprint) (state.MessageRecord, bool) {
	return o.state.Incoming.Status(fp)
}

// RemoveClaim removes one claim matching hash from owner's queue after
// the operator has confirmed the L1 claim completed. Controller only.
func (o *Orchestrator) RemoveClaim(caller, owner teleport.Address, hash teleport.Fingerprint) error {
	if !o.state.Controllers.IsAuthorized(caller) {
		return teleport.Errorf(teleport.CodeUnauthorized, "caller %s is not a controller", caller)
	}
	if err := o.state.Claims.RemoveByHash(owner, hash); err != nil {
		return err
	}
	o.log.Info("claim removed",
		log.Stringer("caller", caller),
		log.Stringer("owner", owner),
		log.Stringer("hash", hash),
	)
	return nil
}

// RemoveClaimByTokenAmount removes one claim matching token and amount
// from owner's queue. It is the lossy fallback for claims recorded
// before hashes were tracked. Controller only.
func (o *Orchestrator) RemoveClaimByTokenAmount(caller, owner teleport.Address, token teleport.TokenID, amount *big.Int) error {
	if !o.state.Controllers.IsAuthorized(caller) {
		return teleport.Errorf(teleport.CodeUnauthorized, "caller %s is not a controller", caller)
	}
	return o.state.Claims.RemoveByTokenAmount(owner, token, amount)
}

// DropMessage deletes a message record so the relay can redeliver it.
// This is the retry path for messages stuck in a failed state.
// Controller only.
func (o *Orchestrator) DropMessage(caller teleport.Address, fp teleport.Fingerprint) error {
	if !o.state.Controllers.IsAuthorized(caller) {
		return teleport.Errorf(teleport.CodeUnauthorized, "caller %s is not a controller", caller)
	}
	if !o.state.Incoming.Remove(fp) {
		return teleport.Errorf(teleport.CodeOther, "no record for message %s", fp)
	}
	o.log.Info("message record dropped for redelivery",
		log.Stringer("caller", caller),
		log.Stringer("fingerprint", fp),
	)
	return nil
}

// ExportState drains all stores into a snapshot for migration.
// Controller only.
func (o *Orchestrator) ExportState(caller teleport.Address) (*state.Snapshot, error) {
	if !o.state.Controllers.IsAuthorized(caller) {
		return nil, teleport.Errorf(teleport.CodeUnauthorized, "caller %s is not a controller", caller)
	}
	snap := o.state.Export()
	o.log.Info("state exported",
		log.Stringer("caller", caller),
		log.Int("controllers", len(snap.Controllers)),
		log.Int("balances", len(snap.Balances)),
		log.Int("messages", len(snap.Messages)),
		log.Int("claims", len(snap.Claims)),
	)
	return snap, nil
}

// ReplaceState installs a previously exported snapshot, discarding all
// current store contents. Controller only, except when the controller
// set is empty: an export drains it, so installing a snapshot across a
// persistence boundary re-seeds authorization from the snapshot itself.
func (o *Orchestrator) ReplaceState(caller teleport.Address, snap *state.Snapshot) error {
	if len(o.state.Controllers.Controllers()) > 0 && !o.state.Controllers.IsAuthorized(caller) {
		return teleport.Errorf(teleport.CodeUnauthorized, "caller %s is not a controller", caller)
	}
	o.state.Replace(snap)
	o.log.Info("state replaced", log.Stringer("caller", caller))
	return nil
}

// ClearState empties every store. Controller only.
func (o *Orchestrator) ClearState(caller teleport.Address) error {
	if !o.state.Controllers.IsAuthorized(caller) {
		return teleport.Errorf(teleport.CodeUnauthorized, "caller %s is not a controller", caller)
	}
	o.state.Clear()
	o.log.Warn("state cleared", log.Stringer("caller", caller))
	return nil
}
