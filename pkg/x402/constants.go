package x402

import "time"

// Version is the x402 protocol version this facilitator speaks.
const Version = 1

// Scheme and Network are the fixed literals issued in every
// PaymentRequirement — this facilitator supports exactly one combination.
const (
	Scheme  = "exact"
	Network = "solana"
)

// Wire program ids, bit-exact per the Solana runtime.
const (
	ComputeBudgetProgramID   = "ComputeBudget111111111111111111111111111111"
	TokenProgramID           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	Token2022ProgramID       = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	AssociatedTokenProgramID = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
)

// Instruction discriminators.
const (
	DiscriminatorTransferChecked  byte = 0x0c
	DiscriminatorComputeUnitLimit byte = 0x02
	DiscriminatorComputeUnitPrice byte = 0x03
)

// DefaultRPCTimeout bounds a single Chain Client call absent an explicit
// configured override.
const DefaultRPCTimeout = 30 * time.Second
