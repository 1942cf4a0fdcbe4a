package abiutils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ABIElements is a list of ABI entries. It decodes from a standard JSON ABI,
// from a list of human readable signatures, or from a mix of both.
type ABIElements []ABIEntry

func (list *ABIElements) addUnique(item ABIEntry) bool {
	for _, entry := range *list {
		if item.Type == entry.Type && item.Signature() == entry.Signature() {
			return false
		}
	}
	*list = append(*list, item)
	return true
}

func (list *ABIElements) UnmarshalJSON(data []byte) error {
	if text, err := strconv.Unquote(string(data)); err == nil {
		entry, err := ParseMethodSig(text)
		if err != nil {
			return err
		}
		list.addUnique(entry)
		return nil
	}

	rawEntries := []json.RawMessage{}
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		return err
	}
	for _, raw := range rawEntries {
		var (
			entry ABIEntry
			err   error
		)
		if text, qerr := strconv.Unquote(string(raw)); qerr == nil {
			entry, err = ParseMethodSig(text)
		} else {
			err = json.Unmarshal(raw, &entry)
		}
		if err != nil {
			return err
		}
		list.addUnique(entry)
	}
	return nil
}

// truffle and hardhat artifacts carry the ABI under an "abi" key
type artifact struct {
	ContractName string      `json:"contractName"`
	ABI          ABIElements `json:"abi"`
}

func UnmarshalABI(data []byte) (ABIElements, error) {
	list := ABIElements{}
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "{") {
		var art artifact
		if err := json.Unmarshal(data, &art); err != nil {
			return nil, err
		}
		return art.ABI, nil
	}
	err := json.Unmarshal(data, &list)
	return list, err
}

// LoadInterface reads an ABI descriptor from reader.
func LoadInterface(name string, reader io.Reader) (Interface, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return Interface{}, err
	}
	entries, err := UnmarshalABI(data)
	if err != nil {
		return Interface{}, fmt.Errorf("could not decode abi %s: %w", name, err)
	}
	return NewInterface(name, entries)
}

// LoadInterfaceFile reads an ABI descriptor from a file, the interface is
// named after the file.
func LoadInterfaceFile(filename string) (Interface, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Interface{}, fmt.Errorf("failed to open abi file: %w", err)
	}
	defer file.Close()
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return LoadInterface(name, file)
}
