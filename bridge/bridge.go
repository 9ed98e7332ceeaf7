// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bridge drives the burn and mint workflows of the token bridge.
// Each workflow sequences calls to the token canister and the messaging
// relay and updates the bridge stores according to outcome, surfacing
// partial-failure states as distinct typed errors instead of hiding them.
package bridge

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/holiman/uint256"
	"github.com/luxfi/log"

	"github.com/luxfi/teleport"
	"github.com/luxfi/teleport/cache"
	"github.com/luxfi/teleport/state"
	"github.com/luxfi/teleport/utils"
)

const defaultProbeTTL = 30 * time.Second

// TokenBackend is the capability interface for the external token
// canister that holds supply. Its ledger, not the bridge's shadow
// balances, is the authoritative source of spendable value.
type TokenBackend interface {
	// Name probes the token canister for liveness.
	Name(ctx context.Context, token teleport.TokenID) (string, error)
	// TransferFrom moves amount from one account to another using the
	// caller's prior authorization, returning the transaction id.
	TransferFrom(ctx context.Context, token teleport.TokenID, from, to teleport.Address, amount *big.Int) (*big.Int, error)
	// Burn destroys amount held by the bridge, returning the burn
	// transaction id.
	Burn(ctx context.Context, token teleport.TokenID, amount *big.Int) (*big.Int, error)
	// Mint credits value on L2 for a consumed L1 event, returning the
	// mint transaction id.
	Mint(ctx context.Context, token teleport.TokenID, nonce uint64, payload []*uint256.Int) (*big.Int, error)
}

// RelayBackend is the capability interface for the cross-chain messaging
// relay. Inbound delivery is pushed into Orchestrator.HandleMessage by
// the relay itself.
type RelayBackend interface {
	SendMessage(ctx context.Context, destination teleport.Address, payload []*uint256.Int) (bool, error)
}

// Config wires an Orchestrator to its collaborators.
type Config struct {
	// BridgeAddress is the bridge's own custody account on the token
	// ledger.
	BridgeAddress teleport.Address
	// L1Contract is the only L1-side contract this bridge accepts
	// messages from and dispatches withdrawals to.
	L1Contract teleport.Address
	Tokens     TokenBackend
	Relay      RelayBackend
	Log        log.Logger
	// ProbeTTL bounds how long a successful liveness probe is reused.
	ProbeTTL time.Duration
	// DispatchTimeout, when positive, retries withdrawal dispatch with
	// exponential backoff for up to this long before giving up. Zero
	// means a single attempt.
	DispatchTimeout time.Duration
}

// Orchestrator owns the bridge workflows over a shared State. Operations
// never hold a store lock across a remote call; the message registry's
// test-and-set is the only cross-operation ordering guarantee.
type Orchestrator struct {
	state  *state.State
	tokens TokenBackend
	relay  RelayBackend
	log    log.Logger

	bridgeAddr      teleport.Address
	l1Contract      teleport.Address
	probes          *cache.TTLCache[teleport.TokenID, string]
	dispatchTimeout time.Duration
}

// New builds an Orchestrator over st.
func New(st *state.State, cfg Config) *Orchestrator {
	logger := cfg.Log
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	ttl := cfg.ProbeTTL
	if ttl <= 0 {
		ttl = defaultProbeTTL
	}
	return &Orchestrator{
		state:           st,
		tokens:          cfg.Tokens,
		relay:           cfg.Relay,
		log:             logger,
		bridgeAddr:      cfg.BridgeAddress,
		l1Contract:      cfg.L1Contract,
		probes:          cache.NewTTLCache[teleport.TokenID, string](ttl),
		dispatchTimeout: cfg.DispatchTimeout,
	}
}

// Burn moves amount of token from the caller back to L1: transfer to
// bridge custody, burn, then notify the L1 contract so l1Recipient can
// claim. It returns the burn transaction id.
//
// Failure policy: a probe or transfer failure aborts with no side
// effects. A burn failure after the transfer leaves custody with the
// bridge and the shadow balance incremented; a dispatch failure after
// the burn leaves burnt supply with no outbound notification. Both are
// surfaced as distinct errors so operators can reconcile without
// re-running earlier steps.
func (o *Orchestrator) Burn(
	ctx context.Context,
	caller teleport.Address,
	token teleport.TokenID,
	l1Recipient teleport.Address,
	amount *big.Int,
) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, teleport.Errorf(teleport.CodeOther, "burn amount must be positive")
	}

	if _, err := o.probes.Get(token, func(token teleport.TokenID) (string, error) {
		return o.tokens.Name(ctx, token)
	}); err != nil {
		return nil, teleport.Errorf(teleport.CodeRemoteUnavailable, "token canister %s is not responding: %s", token, err)
	}

	if _, err := o.tokens.TransferFrom(ctx, token, caller, o.bridgeAddr, amount); err != nil {
		return nil, remoteError(err, "transfer from %s rejected by token canister %s", caller, token)
	}

	// Shadow accounting only; the token canister's transfer-from above is
	// the real spend guard.
	if err := o.state.Balances.Add(caller, token, amount); err != nil {
		return nil, err
	}

	burnTxID, err := o.tokens.Burn(ctx, token, amount)
	if err != nil {
		o.log.Warn("burn rejected after transfer, custody retained pending reconciliation",
			log.Stringer("token", token),
			log.Stringer("caller", caller),
			log.Err(err),
		)
		return nil, remoteError(err, "burn of %s rejected by token canister %s after transfer; custody and shadow balance retained", amount, token)
	}

	payload, err := withdrawalPayload(token, l1Recipient, amount)
	if err != nil {
		return nil, err
	}
	if err := o.dispatch(ctx, payload); err != nil {
		o.log.Warn("withdrawal dispatch failed after burn",
			log.Stringer("token", token),
			log.Stringer("caller", caller),
			log.Err(err),
		)
		return nil, remoteError(err, "withdrawal dispatch to %s failed after burn; retry dispatch, do not re-burn", o.l1Contract)
	}

	msgHash, err := teleport.OutboundFingerprint(token, l1Recipient, amount, burnTxID)
	if err != nil {
		return nil, err
	}
	o.state.Claims.Enqueue(teleport.ClaimableMessage{
		Owner:   l1Recipient,
		MsgHash: msgHash,
		Token:   token,
		Amount:  new(big.Int).Set(amount),
	})

	if err := o.state.Balances.Deduct(caller, token, amount); err != nil {
		// Another interleaved operation already consumed the shadow
		// balance. The burn and dispatch stand; only the shadow record
		// needs reconciliation.
		o.log.Warn("shadow balance decrement failed after dispatch",
			log.Stringer("token", token),
			log.Stringer("caller", caller),
			log.Err(err),
		)
		return nil, err
	}

	o.log.Info("burn dispatched",
		log.Stringer("token", token),
		log.Stringer("caller", caller),
		log.Stringer("l1Recipient", l1Recipient),
		log.String("amount", amount.String()),
	)
	return burnTxID, nil
}

// HandleMessage is the relay's entry point for an L1-originated message.
// It rejects messages from unexpected L1 contracts, deduplicates by
// fingerprint, and mints on first sight. A redelivered message returns
// the originally recorded mint transaction id.
func (o *Orchestrator) HandleMessage(
	ctx context.Context,
	sender teleport.Address,
	token teleport.TokenID,
	nonce uint64,
	payload []*uint256.Int,
) (*big.Int, error) {
	if sender != o.l1Contract {
		return nil, teleport.Errorf(teleport.CodeAddressMismatch, "message from unexpected L1 contract %s", sender)
	}

	msg := &teleport.InboundMessage{
		Sender:    sender,
		Recipient: token,
		Nonce:     nonce,
		Payload:   payload,
	}
	fp := msg.Fingerprint()

	// Single non-suspending test-and-set: at most one invocation per
	// fingerprint gets past this gate.
	if !o.state.Incoming.RegisterIfAbsent(fp) {
		rec, _ := o.state.Incoming.Status(fp)
		if rec.Status == state.StatusConsumedAndMinted && rec.MintTxID != nil {
			return rec.MintTxID, nil
		}
		return nil, teleport.Errorf(teleport.CodeAlreadyProcessed, "message %s is already recorded with status %s", fp, rec.Status)
	}

	// The L1 event is consumed once registered; the mint below may still
	// fail independently.
	o.state.Incoming.SetStatus(fp, state.StatusConsumedNotMinted)

	txID, err := o.tokens.Mint(ctx, token, nonce, payload)
	if err != nil {
		o.state.Incoming.SetStatus(fp, state.StatusFailed)
		o.log.Warn("mint rejected",
			log.Stringer("fingerprint", fp),
			log.Stringer("token", token),
			log.Uint64("nonce", nonce),
			log.Err(err),
		)
		return nil, remoteError(err, "mint rejected by token canister %s", token)
	}

	o.state.Incoming.SetMinted(fp, txID)
	o.log.Info("message minted",
		log.Stringer("fingerprint", fp),
		log.Stringer("token", token),
		log.Uint64("nonce", nonce),
	)
	return txID, nil
}

// dispatch sends the withdrawal payload to the L1 contract, retrying
// transient relay failures when a dispatch timeout is configured.
func (o *Orchestrator) dispatch(ctx context.Context, payload []*uint256.Int) error {
	if o.dispatchTimeout <= 0 {
		_, err := o.relay.SendMessage(ctx, o.l1Contract, payload)
		return err
	}
	return utils.WithRetriesTimeout(o.log, func() error {
		_, err := o.relay.SendMessage(ctx, o.l1Contract, payload)
		return err
	}, o.dispatchTimeout)
}

// withdrawalPayload encodes (token, recipient, amount) as the ordered
// word sequence the L1 contract expects.
func withdrawalPayload(token teleport.TokenID, recipient teleport.Address, amount *big.Int) ([]*uint256.Int, error) {
	amountWord, err := teleport.WordFromBig(amount)
	if err != nil {
		return nil, err
	}
	return []*uint256.Int{
		new(uint256.Int).SetBytes(token[:]),
		new(uint256.Int).SetBytes(recipient[:]),
		amountWord,
	}, nil
}

// remoteError keeps an already-typed bridge error intact and wraps
// anything else as a remote rejection with step context.
func remoteError(err error, format string, args ...interface{}) error {
	var te *teleport.Error
	if errors.As(err, &te) {
		return te
	}
	return teleport.Errorf(teleport.CodeRemoteRejected, format+": %s", append(args, err)...)
}
