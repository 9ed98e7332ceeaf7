// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/teleport"
)

func randomAddress() teleport.Address {
	var addr teleport.Address
	rand.Read(addr[:])
	return addr
}

func TestAccessListSeed(t *testing.T) {
	require := require.New(t)

	root := randomAddress()
	list := NewAccessList(root)

	require.True(list.IsAuthorized(root))
	require.Equal([]teleport.Address{root}, list.Controllers())
}

func TestAuthorizeRequiresController(t *testing.T) {
	require := require.New(t)

	root := randomAddress()
	outsider := randomAddress()
	candidate := randomAddress()
	list := NewAccessList(root)

	err := list.Authorize(outsider, candidate)
	require.Error(err)
	require.True(teleport.IsCode(err, teleport.CodeUnauthorized))
	require.False(list.IsAuthorized(candidate))

	require.NoError(list.Authorize(root, candidate))
	require.True(list.IsAuthorized(candidate))

	// A freshly added controller can itself authorize others.
	next := randomAddress()
	require.NoError(list.Authorize(candidate, next))
	require.True(list.IsAuthorized(next))
}

func TestAuthorizeDuplicateIsNoOp(t *testing.T) {
	require := require.New(t)

	root := randomAddress()
	candidate := randomAddress()
	list := NewAccessList(root)

	require.NoError(list.Authorize(root, candidate))
	require.NoError(list.Authorize(root, candidate))
	require.Equal([]teleport.Address{root, candidate}, list.Controllers())
}

func TestAccessListEmptyAuthorizesNobody(t *testing.T) {
	require := require.New(t)

	list := NewAccessList()
	caller := randomAddress()

	require.False(list.IsAuthorized(caller))
	require.Error(list.Authorize(caller, caller))
	require.Empty(list.Controllers())
}
