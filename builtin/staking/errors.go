// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"
	"fmt"
)

// Code is a stable numeric error code.
type Code uint32

// Program codes.
const (
	CodeContractPaused Code = 6000 + iota
	CodeNotPaused
	CodeAlreadyPaused
	CodeZeroAmount
	CodeInsufficientBalance
	CodeUnauthorized
	CodeInvalidTokenMint
	CodeInvalidTokenAccount
	CodeInvalidUser
	CodeOverflow
	CodeUnderflow
)

// Instruction and account validation codes.
const (
	CodeInstructionMissing           Code = 100
	CodeInstructionFallbackNotFound  Code = 101
	CodeInstructionDidNotDeserialize Code = 102
	CodeAccountDiscriminatorMismatch Code = 3002
	CodeAccountNotEnoughKeys         Code = 3005
	CodeAccountNotMutable            Code = 3006
	CodeAccountOwnedByWrongProgram   Code = 3007
	CodeInvalidProgramID             Code = 3008
	CodeAccountNotSigner             Code = 3010
	CodeAccountNotInitialized        Code = 3012
)

var codeText = map[Code][2]string{
	CodeContractPaused:      {"ContractPaused", "Contract is paused"},
	CodeNotPaused:           {"NotPaused", "Contract is not paused"},
	CodeAlreadyPaused:       {"AlreadyPaused", "Contract is already paused"},
	CodeZeroAmount:          {"ZeroAmount", "Amount must be greater than zero"},
	CodeInsufficientBalance: {"InsufficientBalance", "Insufficient balance"},
	CodeUnauthorized:        {"Unauthorized", "Unauthorized: only owner can perform this action"},
	CodeInvalidTokenMint:    {"InvalidTokenMint", "Invalid token mint"},
	CodeInvalidTokenAccount: {"InvalidTokenAccount", "Invalid token account"},
	CodeInvalidUser:         {"InvalidUser", "Invalid user"},
	CodeOverflow:            {"Overflow", "Arithmetic overflow"},
	CodeUnderflow:           {"Underflow", "Arithmetic underflow"},

	CodeInstructionMissing:           {"InstructionMissing", "Instruction discriminator not provided"},
	CodeInstructionFallbackNotFound:  {"InstructionFallbackNotFound", "Fallback functions are not supported"},
	CodeInstructionDidNotDeserialize: {"InstructionDidNotDeserialize", "The program could not deserialize the given instruction"},
	CodeAccountDiscriminatorMismatch: {"AccountDiscriminatorMismatch", "Account discriminator did not match what was expected"},
	CodeAccountNotEnoughKeys:         {"AccountNotEnoughKeys", "Not enough account keys given to the instruction"},
	CodeAccountNotMutable:            {"AccountNotMutable", "The given account is not mutable"},
	CodeAccountOwnedByWrongProgram:   {"AccountOwnedByWrongProgram", "The given account is owned by a different program than expected"},
	CodeInvalidProgramID:             {"InvalidProgramId", "Program ID was not as expected"},
	CodeAccountNotSigner:             {"AccountNotSigner", "The given account did not sign"},
	CodeAccountNotInitialized:        {"AccountNotInitialized", "The program expected this account to be already initialized"},
}

// String returns the name of the code.
func (c Code) String() string {
	if t, ok := codeText[c]; ok {
		return t[0]
	}
	return fmt.Sprintf("Code(%d)", uint32(c))
}

// Error is a coded staking program failure.
type Error struct {
	Code Code
}

func (e *Error) Error() string {
	msg := "unknown error"
	if t, ok := codeText[e.Code]; ok {
		msg = t[1]
	}
	return fmt.Sprintf("staking error %d (%v): %s", uint32(e.Code), e.Code, msg)
}

// Is matches staking errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrContractPaused      = &Error{CodeContractPaused}
	ErrNotPaused           = &Error{CodeNotPaused}
	ErrAlreadyPaused       = &Error{CodeAlreadyPaused}
	ErrZeroAmount          = &Error{CodeZeroAmount}
	ErrInsufficientBalance = &Error{CodeInsufficientBalance}
	ErrUnauthorized        = &Error{CodeUnauthorized}
	ErrInvalidTokenMint    = &Error{CodeInvalidTokenMint}
	ErrInvalidTokenAccount = &Error{CodeInvalidTokenAccount}
	ErrInvalidUser         = &Error{CodeInvalidUser}
	ErrOverflow            = &Error{CodeOverflow}
	ErrUnderflow           = &Error{CodeUnderflow}

	ErrInstructionMissing           = &Error{CodeInstructionMissing}
	ErrInstructionFallbackNotFound  = &Error{CodeInstructionFallbackNotFound}
	ErrInstructionDidNotDeserialize = &Error{CodeInstructionDidNotDeserialize}
	ErrAccountDiscriminatorMismatch = &Error{CodeAccountDiscriminatorMismatch}
	ErrAccountNotEnoughKeys         = &Error{CodeAccountNotEnoughKeys}
	ErrAccountNotMutable            = &Error{CodeAccountNotMutable}
	ErrAccountOwnedByWrongProgram   = &Error{CodeAccountOwnedByWrongProgram}
	ErrInvalidProgramID             = &Error{CodeInvalidProgramID}
	ErrAccountNotSigner             = &Error{CodeAccountNotSigner}
	ErrAccountNotInitialized        = &Error{CodeAccountNotInitialized}
)

// CodeOf extracts the staking code carried by err, through any wrapping.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
