package abiutils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/status-im/keycard-go/hexutils"
)

type MethodId [4]byte

func (id MethodId) String() string {
	return "0x" + strings.ToLower(hexutils.BytesToHex(id[:]))
}

func SigToMethodId(sig string) MethodId {
	id := MethodId{}
	copy(id[:], crypto.Keccak256([]byte(sig))[:4])
	return id
}

// Interface is a named ABI built from a list of entries. Entries are kept
// in declaration order so the descriptor can be written back out.
type Interface struct {
	abi.ABI
	Name    string
	Entries []ABIEntry
}

// RequireMethods returns an error naming the first signature the
// interface does not declare.
func (i *Interface) RequireMethods(sigs ...string) error {
	declared := make(map[string]struct{}, len(i.Methods))
	for _, method := range i.Methods {
		declared[method.Sig] = struct{}{}
	}
	for _, sig := range sigs {
		if _, ok := declared[sig]; !ok {
			return fmt.Errorf("%w: %s [%s]", ErrMissingMethod, sig, SigToMethodId(sig))
		}
	}
	return nil
}

func (i *Interface) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Entries)
}

func NewInterface(name string, entries []ABIEntry) (Interface, error) {
	methods := make(map[string]abi.Method)
	events := make(map[string]abi.Event)
	errors := make(map[string]abi.Error)
	var constructor abi.Method
	for _, entry := range entries {
		switch entry.Type {
		case "function", "":
			mutability := entry.mutability()
			methodName := abi.ResolveNameConflict(entry.Name, func(s string) bool { _, ok := methods[s]; return ok })
			isConst := mutability == "view" || mutability == "pure"
			methods[methodName] = abi.NewMethod(methodName, entry.Name, abi.Function, mutability, isConst, mutability == "payable", entry.Inputs, entry.Outputs)
		case "constructor":
			constructor = abi.NewMethod("", "", abi.Constructor, entry.StateMutability, false, entry.StateMutability == "payable", entry.Inputs, nil)
		case "event":
			eventName := abi.ResolveNameConflict(entry.Name, func(s string) bool { _, ok := events[s]; return ok })
			events[eventName] = abi.NewEvent(eventName, entry.Name, entry.Anonymous, entry.Inputs)
		case "error":
			errors[entry.Name] = abi.NewError(entry.Name, entry.Inputs)
		case "fallback", "receive":
			// not callable by name
		default:
			return Interface{}, fmt.Errorf("%w: %v", ErrInvalidEntryType, entry.Type)
		}
	}
	return Interface{
		ABI: abi.ABI{
			Constructor: constructor,
			Methods:     methods,
			Events:      events,
			Errors:      errors,
		},
		Name:    name,
		Entries: entries,
	}, nil
}

type abiEntryMarshaling struct {
	Type            string               `json:"type"`
	Name            string               `json:"name"`
	Inputs          []argumentMarshaling `json:"inputs"`
	Outputs         []argumentMarshaling `json:"outputs,omitempty"`
	StateMutability string               `json:"stateMutability,omitempty"`
	Anonymous       bool                 `json:"anonymous,omitempty"`
}

type argumentMarshaling struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	InternalType string `json:"internalType,omitempty"`
	Indexed      bool   `json:"indexed,omitempty"`
}

type ABIEntry struct {
	Type    string
	Name    string
	Inputs  []abi.Argument
	Outputs []abi.Argument

	// Status indicator which can be: "pure", "view",
	// "nonpayable" or "payable".
	StateMutability string

	// Event relevant indicator represents the event is
	// declared as anonymous.
	Anonymous bool

	// Pre-0.5 compilers emit these instead of StateMutability.
	Payable  bool
	Constant bool
}

func (e *ABIEntry) mutability() string {
	switch {
	case e.StateMutability != "":
		return e.StateMutability
	case e.Payable:
		return "payable"
	case e.Constant:
		return "view"
	}
	return "nonpayable"
}

func marshalArguments(args []abi.Argument) []argumentMarshaling {
	ret := make([]argumentMarshaling, 0, len(args))
	for _, arg := range args {
		ret = append(ret, argumentMarshaling{
			Name:         arg.Name,
			Type:         arg.Type.String(),
			InternalType: arg.Type.String(),
			Indexed:      arg.Indexed,
		})
	}
	return ret
}

func (e ABIEntry) MarshalJSON() ([]byte, error) {
	marshaling := abiEntryMarshaling{
		Type:            e.Type,
		Name:            e.Name,
		Inputs:          marshalArguments(e.Inputs),
		StateMutability: e.StateMutability,
		Anonymous:       e.Anonymous,
	}
	if e.Type != "event" && e.Type != "error" {
		marshaling.Outputs = marshalArguments(e.Outputs)
		marshaling.StateMutability = e.mutability()
	}
	return json.Marshal(marshaling)
}

// Signature returns the canonical signature, e.g. "startCampaign(address,uint256,uint256)".
func (e *ABIEntry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, arg := range e.Inputs {
		types[i] = arg.Type.String()
	}
	return fmt.Sprintf("%v(%v)", e.Name, strings.Join(types, ","))
}

func (e *ABIEntry) MethodId() MethodId {
	return SigToMethodId(e.Signature())
}
