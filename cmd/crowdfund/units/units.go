// Package units converts between on-chain base units (wei) and the decimal
// ether form shown to users. Conversions are exact; no floating point is used.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/params"
)

// Decimals is the fixed scale between a display unit and a base unit.
const Decimals = 18

// SecondsPerDay is used to turn campaign durations given in days into seconds.
const SecondsPerDay = 86400

var (
	ErrEmptyAmount     = errors.New("amount is empty")
	ErrInvalidAmount   = errors.New("amount is not a number")
	ErrTooManyDecimals = fmt.Errorf("amount has more than %d decimals", Decimals)
	ErrInvalidDuration = errors.New("duration is not a whole number of days")
	ErrOutOfRange      = errors.New("value does not fit in uint256")
	bigEther           = big.NewInt(params.Ether)
	decimalAmountRegex = regexp.MustCompile(`^([+-])?([0-9]*)(?:\.([0-9]*))?$`)
	wholeNumberRegex   = regexp.MustCompile(`^\+?[0-9]+$`)
)

// FromWei renders a base unit amount as a decimal ether string with trailing
// zeros trimmed, e.g. 1500000000000000000 -> "1.5".
func FromWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	abs := new(big.Int).Abs(wei)
	quo, rem := new(big.Int).QuoRem(abs, bigEther, new(big.Int))
	sign := ""
	if wei.Sign() < 0 {
		sign = "-"
	}
	if rem.Sign() == 0 {
		return sign + quo.String()
	}
	frac := rem.String()
	frac = strings.Repeat("0", Decimals-len(frac)) + frac
	return sign + quo.String() + "." + strings.TrimRight(frac, "0")
}

// ToWei parses a decimal ether string into base units. The sign is kept,
// callers decide whether zero or negative amounts are acceptable.
func ToWei(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, ErrEmptyAmount
	}
	matches := decimalAmountRegex.FindStringSubmatch(amount)
	if matches == nil || (matches[2] == "" && matches[3] == "") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	whole, frac := matches[2], matches[3]
	if len(frac) > Decimals {
		return nil, fmt.Errorf("%w: %q", ErrTooManyDecimals, amount)
	}
	digits := whole + frac + strings.Repeat("0", Decimals-len(frac))
	wei, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if matches[1] == "-" {
		wei.Neg(wei)
	}
	return wei, nil
}

// DaysToSeconds parses a whole number of days and returns the duration in seconds.
func DaysToSeconds(days string) (*big.Int, error) {
	days = strings.TrimSpace(days)
	if !wholeNumberRegex.MatchString(days) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDuration, days)
	}
	n, _ := new(big.Int).SetString(strings.TrimPrefix(days, "+"), 10)
	return n.Mul(n, big.NewInt(SecondsPerDay)), nil
}

// CheckUint256 returns ErrOutOfRange when v cannot be passed as a uint256
// contract argument without being truncated.
func CheckUint256(v *big.Int) error {
	if v.Sign() < 0 || v.Cmp(math.MaxBig256) > 0 {
		return fmt.Errorf("%w: %v", ErrOutOfRange, v)
	}
	return nil
}
