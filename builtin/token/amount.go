// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// FormatAmount renders base units as a decimal number of whole tokens, trimming trailing zeros.
func FormatAmount(amount uint64, decimals uint8) string {
	v := new(big.Int).SetUint64(amount).String()
	if decimals == 0 {
		return v
	}
	d := int(decimals)
	if len(v) <= d {
		v = strings.Repeat("0", d-len(v)+1) + v
	}
	whole, frac := v[:len(v)-d], strings.TrimRight(v[len(v)-d:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// ParseAmount converts a decimal number of whole tokens into base units.
func ParseAmount(s string, decimals uint8) (uint64, error) {
	whole, frac, _ := strings.Cut(strings.TrimSpace(s), ".")
	if whole == "" && frac == "" {
		return 0, errors.New("empty amount")
	}
	if len(frac) > int(decimals) {
		return 0, errors.Errorf("too many decimal places, max %d", decimals)
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok || v.Sign() < 0 {
		return 0, errors.Errorf("invalid amount %q", s)
	}
	if !v.IsUint64() {
		return 0, errors.Errorf("amount %q overflows", s)
	}
	return v.Uint64(), nil
}
