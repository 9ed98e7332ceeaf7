// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/teleport"
)

func TestRegisterIfAbsent(t *testing.T) {
	require := require.New(t)

	registry := NewMessageRegistry()
	fp := teleport.Fingerprint(randomAddress())

	require.True(registry.RegisterIfAbsent(fp))
	rec, ok := registry.Status(fp)
	require.True(ok)
	require.Equal(StatusConsuming, rec.Status)

	// Already-present fingerprints are never re-inserted.
	require.False(registry.RegisterIfAbsent(fp))
	rec, ok = registry.Status(fp)
	require.True(ok)
	require.Equal(StatusConsuming, rec.Status)
}

func TestStatusAdvance(t *testing.T) {
	require := require.New(t)

	registry := NewMessageRegistry()
	fp := teleport.Fingerprint(randomAddress())

	require.True(registry.RegisterIfAbsent(fp))

	registry.SetStatus(fp, StatusConsumedNotMinted)
	rec, ok := registry.Status(fp)
	require.True(ok)
	require.Equal(StatusConsumedNotMinted, rec.Status)
	require.Nil(rec.MintTxID)

	registry.SetMinted(fp, big.NewInt(17))
	rec, ok = registry.Status(fp)
	require.True(ok)
	require.Equal(StatusConsumedAndMinted, rec.Status)
	require.Equal(big.NewInt(17), rec.MintTxID)
}

func TestRemoveAllowsRetry(t *testing.T) {
	require := require.New(t)

	registry := NewMessageRegistry()
	fp := teleport.Fingerprint(randomAddress())

	require.True(registry.RegisterIfAbsent(fp))
	registry.SetStatus(fp, StatusFailed)

	require.True(registry.Remove(fp))
	_, ok := registry.Status(fp)
	require.False(ok)
	require.False(registry.Remove(fp))

	// After operator removal the fingerprint can be consumed again.
	require.True(registry.RegisterIfAbsent(fp))
}

func TestStatusReturnsCopy(t *testing.T) {
	require := require.New(t)

	registry := NewMessageRegistry()
	fp := teleport.Fingerprint(randomAddress())

	registry.RegisterIfAbsent(fp)
	registry.SetMinted(fp, big.NewInt(5))

	rec, _ := registry.Status(fp)
	rec.MintTxID.SetInt64(9999)

	rec, _ = registry.Status(fp)
	require.Equal(big.NewInt(5), rec.MintTxID)
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusConsuming, "consuming"},
		{StatusConsumedNotMinted, "consumed-not-minted"},
		{StatusConsumedAndMinted, "consumed-and-minted"},
		{StatusFailed, "failed"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.status.String())
		})
	}
}
