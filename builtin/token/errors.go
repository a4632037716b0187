// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "fmt"

// Error is a coded token program failure.
type Error struct {
	Code    uint32
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("token error %d: %s", e.Code, e.Message)
}

// Is matches token errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInsufficientFunds  = &Error{1, "insufficient funds"}
	ErrInvalidMint        = &Error{2, "invalid mint"}
	ErrMintMismatch       = &Error{3, "account not associated with this mint"}
	ErrOwnerMismatch      = &Error{4, "owner does not match"}
	ErrInvalidAccount     = &Error{9, "invalid token account"}
	ErrInvalidInstruction = &Error{12, "invalid instruction"}
	ErrOverflow           = &Error{14, "operation overflowed"}
	ErrMissingSignature   = &Error{15, "authority did not sign"}
)
