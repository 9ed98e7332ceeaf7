// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/luxfi/teleport"
	"github.com/luxfi/teleport/bridge"
	"github.com/luxfi/teleport/state"
)

// Demonstrates a full round trip against in-memory fakes: an L1 deposit
// message is minted on L2, then burned back toward L1.
func main() {
	var (
		controller  = teleport.Address{31: 0x01}
		bridgeAddr  = teleport.Address{31: 0x02}
		l1Contract  = teleport.Address{31: 0x03}
		user        = teleport.Address{31: 0x04}
		l1Recipient = teleport.Address{31: 0x05}
		token       = teleport.TokenID{31: 0x10}
	)

	tokens := bridge.NewFakeTokenBackend()
	tokens.MintRecipient = user
	relay := &bridge.FakeRelay{}

	st := state.New(controller)
	o := bridge.New(st, bridge.Config{
		BridgeAddress: bridgeAddr,
		L1Contract:    l1Contract,
		Tokens:        tokens,
		Relay:         relay,
	})

	ctx := context.Background()

	// Inbound: the relay delivers an L1 deposit of 1000 units.
	payload := []*uint256.Int{
		new(uint256.Int).SetBytes(user[:]),
		uint256.NewInt(1000),
	}
	mintTx, err := o.HandleMessage(ctx, l1Contract, token, 1, payload)
	if err != nil {
		panic(err)
	}
	fmt.Printf("minted 1000 units in tx %s, user balance %s\n",
		mintTx, tokens.BalanceOf(token, user))

	// Outbound: the user burns 400 units back to L1.
	burnTx, err := o.Burn(ctx, user, token, l1Recipient, big.NewInt(400))
	if err != nil {
		panic(err)
	}
	fmt.Printf("burned 400 units in tx %s, user balance %s\n",
		burnTx, tokens.BalanceOf(token, user))

	for _, claim := range o.Claims(l1Recipient) {
		fmt.Printf("claimable on L1: token %x amount %s key %x\n",
			claim.Token[:4], claim.Amount, claim.MsgHash[:8])
	}
	for _, sent := range relay.Sent() {
		fmt.Printf("withdrawal notice dispatched to %x (%d words)\n",
			sent.Destination[28:], len(sent.Payload))
	}
}
