package abiutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var methodSigRegex = regexp.MustCompile(`^(?:function\s+)?(\w+)\(([^\(\)]*)\)\s*(view|pure|payable|nonpayable)?(?:\s*returns\s*\(([^\(\)]*)\))?$`)

// data location keywords are accepted and dropped
var argKeywords = map[string]bool{
	"memory":   true,
	"calldata": true,
	"storage":  true,
	"indexed":  true,
}

func parseArguments(str string) (abi.Arguments, error) {
	args := make(abi.Arguments, 0)
	if len(strings.TrimSpace(str)) == 0 {
		return args, nil
	}
	for _, arg := range strings.Split(str, ",") {
		tokens := make([]string, 0, 2)
		for _, tok := range strings.Fields(arg) {
			if !argKeywords[tok] {
				tokens = append(tokens, tok)
			}
		}
		if len(tokens) == 0 || len(tokens) > 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidArgument, strings.TrimSpace(arg))
		}
		var name string
		typeStr := tokens[0] // solidity order: type first, then name
		if len(tokens) == 2 {
			name = tokens[1]
		}
		argType, err := abi.NewType(typeStr, typeStr, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidArgument, typeStr, err)
		}
		args = append(args, abi.Argument{
			Name: name,
			Type: argType,
		})
	}
	return args, nil
}

// ParseMethodSig parses a human readable method signature such as
// "campaigns(uint256) view returns (address owner, uint256 target)" into an ABIEntry.
func ParseMethodSig(str string) (ABIEntry, error) {
	matches := methodSigRegex.FindStringSubmatch(strings.TrimSpace(str))
	if matches == nil {
		return ABIEntry{}, fmt.Errorf("%w: %q", ErrInvalidSignature, str)
	}
	inputs, err := parseArguments(matches[2])
	if err != nil {
		return ABIEntry{}, err
	}
	outputs, err := parseArguments(matches[4])
	if err != nil {
		return ABIEntry{}, err
	}
	mutability := matches[3]
	if mutability == "" {
		mutability = "nonpayable"
	}
	return ABIEntry{
		Type:            "function",
		Name:            matches[1],
		Inputs:          inputs,
		Outputs:         outputs,
		StateMutability: mutability,
	}, nil
}
