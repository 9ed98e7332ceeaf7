// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package teleport

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/crypto"
)

// WordLen is the size of one encoded value in the fingerprint preimage.
const WordLen = 32

// HashMessage computes the canonical fingerprint of a cross-chain message.
//
// The preimage is the concatenation of 32-byte big-endian words: sender,
// recipient, nonce, payload length, then each payload word in its original
// order. Field order and the length word are part of the wire contract;
// changing either breaks dedup compatibility with fingerprints already
// recorded on both sides of the bridge. The digest is Keccak-256.
func HashMessage(sender Address, recipient TokenID, nonce uint64, payload []*uint256.Int) Fingerprint {
	preimage := make([]byte, 0, (4+len(payload))*WordLen)
	preimage = append(preimage, sender[:]...)
	preimage = append(preimage, recipient[:]...)
	preimage = appendWord(preimage, uint256.NewInt(nonce))
	preimage = appendWord(preimage, uint256.NewInt(uint64(len(payload))))
	for _, word := range payload {
		preimage = appendWord(preimage, word)
	}

	var fp Fingerprint
	copy(fp[:], crypto.Keccak256(preimage))
	return fp
}

// OutboundFingerprint derives the claim key for a burn that has been
// dispatched to L1. The burn transaction id disambiguates otherwise
// identical (owner, token, amount) withdrawals.
func OutboundFingerprint(token TokenID, owner Address, amount, burnTxID *big.Int) (Fingerprint, error) {
	amountWord, err := WordFromBig(amount)
	if err != nil {
		return Fingerprint{}, err
	}
	txWord, err := WordFromBig(burnTxID)
	if err != nil {
		return Fingerprint{}, err
	}

	preimage := make([]byte, 0, 4*WordLen)
	preimage = append(preimage, token[:]...)
	preimage = append(preimage, owner[:]...)
	preimage = appendWord(preimage, amountWord)
	preimage = appendWord(preimage, txWord)

	var fp Fingerprint
	copy(fp[:], crypto.Keccak256(preimage))
	return fp, nil
}

// WordFromBig converts an arbitrary-precision amount into a payload word.
// Amounts wider than 256 bits cannot be encoded on the wire.
func WordFromBig(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return uint256.NewInt(0), nil
	}
	if v.Sign() < 0 {
		return nil, Errorf(CodeOther, "negative value %s cannot be encoded as a payload word", v)
	}
	word, overflow := uint256.FromBig(v)
	if overflow {
		return nil, Errorf(CodeOther, "value %s overflows a 256-bit payload word", v)
	}
	return word, nil
}

func appendWord(dst []byte, word *uint256.Int) []byte {
	b := word.Bytes32()
	return append(dst, b[:]...)
}
