// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/luxfi/teleport"
	"github.com/luxfi/teleport/state"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "teleport",
	Short: "Teleport - L1/L2 token bridge tooling",
	Long: `Teleport bridges wrapped tokens between an L1 contract and L2 token
canisters. This CLI provides offline tools for computing message
fingerprints and inspecting exported bridge state.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildDate),
}

func init() {
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(claimKeyCmd)
	rootCmd.AddCommand(snapshotCmd)
}

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compute the fingerprint of an inbound message",
	Long: `Compute the deduplication fingerprint of an L1-originated message from
its sender, token, nonce, and payload words.`,
	Run: func(cmd *cobra.Command, args []string) {
		senderHex, _ := cmd.Flags().GetString("sender")
		tokenHex, _ := cmd.Flags().GetString("token")
		nonce, _ := cmd.Flags().GetUint64("nonce")
		words, _ := cmd.Flags().GetStringSlice("word")

		sender, err := teleport.AddressFromHex(senderHex)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid sender: %v\n", err)
			os.Exit(1)
		}
		token, err := teleport.AddressFromHex(tokenHex)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid token: %v\n", err)
			os.Exit(1)
		}

		payload := make([]*uint256.Int, 0, len(words))
		for _, w := range words {
			word, err := parseWord(w)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid payload word %q: %v\n", w, err)
				os.Exit(1)
			}
			payload = append(payload, word)
		}

		fp := teleport.HashMessage(sender, token, nonce, payload)
		fmt.Printf("%x\n", fp[:])
	},
}

var claimKeyCmd = &cobra.Command{
	Use:   "claim-key",
	Short: "Compute the claim key of an outbound withdrawal",
	Long: `Compute the claim queue key of a burned withdrawal from its token,
L1 recipient, amount, and burn transaction id.`,
	Run: func(cmd *cobra.Command, args []string) {
		tokenHex, _ := cmd.Flags().GetString("token")
		ownerHex, _ := cmd.Flags().GetString("owner")
		amountStr, _ := cmd.Flags().GetString("amount")
		burnTxStr, _ := cmd.Flags().GetString("burn-tx")

		token, err := teleport.AddressFromHex(tokenHex)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid token: %v\n", err)
			os.Exit(1)
		}
		owner, err := teleport.AddressFromHex(ownerHex)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid owner: %v\n", err)
			os.Exit(1)
		}
		amount, ok := new(big.Int).SetString(amountStr, 10)
		if !ok {
			fmt.Fprintf(os.Stderr, "Invalid amount %q\n", amountStr)
			os.Exit(1)
		}
		burnTx, ok := new(big.Int).SetString(burnTxStr, 10)
		if !ok {
			fmt.Fprintf(os.Stderr, "Invalid burn tx id %q\n", burnTxStr)
			os.Exit(1)
		}

		key, err := teleport.OutboundFingerprint(token, owner, amount, burnTx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%x\n", key[:])
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [file]",
	Short: "Decode an exported bridge state snapshot",
	Long:  `Decode an RLP-encoded snapshot produced by a state export and print its contents.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		snap, err := state.ParseSnapshot(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid snapshot: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Controllers (%d):\n", len(snap.Controllers))
		for _, c := range snap.Controllers {
			fmt.Printf("  %x\n", c[:])
		}
		fmt.Printf("Balances (%d):\n", len(snap.Balances))
		for _, b := range snap.Balances {
			fmt.Printf("  owner=%x token=%x amount=%s\n", b.Owner[:], b.Token[:], b.Amount)
		}
		fmt.Printf("Messages (%d):\n", len(snap.Messages))
		for _, m := range snap.Messages {
			fmt.Printf("  hash=%x status=%s", m.Hash[:], m.Status)
			if m.MintTxID != nil && m.MintTxID.Sign() > 0 {
				fmt.Printf(" mintTx=%s", m.MintTxID)
			}
			fmt.Println()
		}
		fmt.Printf("Claims (%d):\n", len(snap.Claims))
		for _, c := range snap.Claims {
			fmt.Printf("  owner=%x hash=%x token=%x amount=%s\n",
				c.Owner[:], c.Message.MsgHash[:], c.Message.Token[:], c.Message.Amount)
		}
	},
}

func init() {
	hashCmd.Flags().StringP("sender", "s", "", "L1 sender contract address (hex)")
	hashCmd.Flags().StringP("token", "t", "", "Token canister address (hex)")
	hashCmd.Flags().Uint64P("nonce", "n", 0, "Message nonce")
	hashCmd.Flags().StringSliceP("word", "w", nil, "Payload word (decimal or 0x-hex), repeatable")
	hashCmd.MarkFlagRequired("sender")
	hashCmd.MarkFlagRequired("token")

	claimKeyCmd.Flags().StringP("token", "t", "", "Token canister address (hex)")
	claimKeyCmd.Flags().StringP("owner", "o", "", "L1 recipient address (hex)")
	claimKeyCmd.Flags().StringP("amount", "a", "", "Withdrawal amount (decimal)")
	claimKeyCmd.Flags().StringP("burn-tx", "b", "", "Burn transaction id (decimal)")
	claimKeyCmd.MarkFlagRequired("token")
	claimKeyCmd.MarkFlagRequired("owner")
	claimKeyCmd.MarkFlagRequired("amount")
	claimKeyCmd.MarkFlagRequired("burn-tx")
}

func parseWord(s string) (*uint256.Int, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return uint256.FromHex(s)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a decimal integer")
	}
	return teleport.WordFromBig(v)
}
