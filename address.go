// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package teleport

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

// AddressFromBytes left-pads raw identifier bytes into the canonical
// 32-byte form. Raw forms shorter than 32 bytes (20-byte L1 addresses,
// up-to-29-byte principals) keep their big-endian value.
func AddressFromBytes(raw []byte) (Address, error) {
	if len(raw) > ids.IDLen {
		return Address{}, Errorf(CodeOther, "address is %d bytes, exceeds %d", len(raw), ids.IDLen)
	}
	var addr Address
	copy(addr[ids.IDLen-len(raw):], raw)
	return addr, nil
}

// AddressFromHex parses a hex identifier, with or without the 0x prefix.
func AddressFromHex(s string) (Address, error) {
	raw := common.FromHex(s)
	if len(raw) == 0 && len(s) != 0 && s != "0x" {
		return Address{}, Errorf(CodeOther, "invalid hex address %q", s)
	}
	return AddressFromBytes(raw)
}
