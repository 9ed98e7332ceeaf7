// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/teleport"
)

func claim(owner teleport.Address, token teleport.TokenID, amount int64, hash byte) teleport.ClaimableMessage {
	return teleport.ClaimableMessage{
		Owner:   owner,
		MsgHash: teleport.Fingerprint{hash},
		Token:   token,
		Amount:  big.NewInt(amount),
	}
}

func TestClaimListEmpty(t *testing.T) {
	store := NewClaimStore()
	require.Empty(t, store.List(randomAddress()))
}

func TestClaimEnqueueOrder(t *testing.T) {
	require := require.New(t)

	store := NewClaimStore()
	owner := randomAddress()
	token := randomAddress()

	store.Enqueue(claim(owner, token, 1, 0xA))
	store.Enqueue(claim(owner, token, 2, 0xB))

	msgs := store.List(owner)
	require.Len(msgs, 2)
	require.Equal(teleport.Fingerprint{0xA}, msgs[0].MsgHash)
	require.Equal(teleport.Fingerprint{0xB}, msgs[1].MsgHash)
}

func TestClaimRemoveByHash(t *testing.T) {
	require := require.New(t)

	store := NewClaimStore()
	owner := randomAddress()
	token := randomAddress()

	// Identical token+amount, distinct hashes.
	store.Enqueue(claim(owner, token, 1, 0xA))
	store.Enqueue(claim(owner, token, 1, 0xB))

	require.NoError(store.RemoveByHash(owner, teleport.Fingerprint{0xB}))
	msgs := store.List(owner)
	require.Len(msgs, 1)
	require.Equal(teleport.Fingerprint{0xA}, msgs[0].MsgHash)

	require.Error(store.RemoveByHash(owner, teleport.Fingerprint{0xB}))
}

func TestClaimRemoveByTokenAmountDuplicates(t *testing.T) {
	require := require.New(t)

	store := NewClaimStore()
	owner := randomAddress()
	token := randomAddress()

	// Two pending claims indistinguishable by token+amount: each removal
	// drops exactly one record, and two removals empty the queue.
	store.Enqueue(claim(owner, token, 1, 0xA))
	store.Enqueue(claim(owner, token, 1, 0xB))
	require.Len(store.List(owner), 2)

	require.NoError(store.RemoveByTokenAmount(owner, token, big.NewInt(1)))
	require.Len(store.List(owner), 1)

	require.NoError(store.RemoveByTokenAmount(owner, token, big.NewInt(1)))
	require.Empty(store.List(owner))

	require.Error(store.RemoveByTokenAmount(owner, token, big.NewInt(1)))
}

func TestClaimRemoveByTokenAmountSelectsAmount(t *testing.T) {
	require := require.New(t)

	store := NewClaimStore()
	owner := randomAddress()
	token := randomAddress()

	store.Enqueue(claim(owner, token, 1, 0xA))
	store.Enqueue(claim(owner, token, 2, 0xB))

	require.NoError(store.RemoveByTokenAmount(owner, token, big.NewInt(2)))
	msgs := store.List(owner)
	require.Len(msgs, 1)
	require.Equal(big.NewInt(1), msgs[0].Amount)
}

func TestClaimRemoveByKey(t *testing.T) {
	require := require.New(t)

	store := NewClaimStore()
	owner := randomAddress()
	token := randomAddress()

	withKey := claim(owner, token, 1, 0xA)
	withKey.MsgKey = []byte{1, 2, 3}
	store.Enqueue(withKey)
	store.Enqueue(claim(owner, token, 1, 0xB))

	require.NoError(store.RemoveByKey(owner, []byte{1, 2, 3}))
	msgs := store.List(owner)
	require.Len(msgs, 1)
	require.Equal(teleport.Fingerprint{0xB}, msgs[0].MsgHash)
}

func TestClaimUnknownOwner(t *testing.T) {
	require := require.New(t)

	store := NewClaimStore()
	err := store.RemoveByHash(randomAddress(), teleport.Fingerprint{0xA})
	require.Error(err)
}

func TestClaimListReturnsCopies(t *testing.T) {
	require := require.New(t)

	store := NewClaimStore()
	owner := randomAddress()
	token := randomAddress()

	store.Enqueue(claim(owner, token, 7, 0xA))
	msgs := store.List(owner)
	msgs[0].Amount.SetInt64(9999)

	require.Equal(big.NewInt(7), store.List(owner)[0].Amount)
}
