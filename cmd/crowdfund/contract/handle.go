package contract

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/khanghh/crowdfund/abiutils"
)

//go:embed crowdfunding.abi.json
var crowdfundingABI string

// DefaultAddress is the address of the Truffle deployment the client was built against.
var DefaultAddress = common.HexToAddress("0x6Fe9e9e3C67cF860f2Ae6dc9051c58e47f70dD46")

// RequiredMethods lists every contract function the client calls.
var RequiredMethods = []string{
	"targetAmount()",
	"currentContributions()",
	"timeLeft()",
	"contribute()",
	"refund()",
	"startCampaign(address,uint256,uint256)",
	"totalCampaigns()",
	"campaigns(uint256)",
}

type Config struct {
	Address string // Hex address of the deployed contract
	ABIFile string `toml:",omitempty"` // Optional ABI descriptor overriding the embedded one
}

var DefaultConfig = Config{
	Address: DefaultAddress.Hex(),
}

// Handle is the immutable (address, ABI) pair identifying the remote contract.
type Handle struct {
	address common.Address
	iface   abiutils.Interface
}

func (h Handle) Address() common.Address { return h.address }
func (h Handle) ABI() abi.ABI            { return h.iface.ABI }
func (h Handle) Interface() *abiutils.Interface {
	iface := h.iface
	return &iface
}

func (h Handle) String() string {
	return fmt.Sprintf("%s@%s", h.iface.Name, h.address.Hex())
}

func NewHandle(address common.Address, iface abiutils.Interface) (Handle, error) {
	if address == (common.Address{}) {
		return Handle{}, ErrInvalidAddress
	}
	if err := iface.RequireMethods(RequiredMethods...); err != nil {
		return Handle{}, err
	}
	return Handle{address: address, iface: iface}, nil
}

// DefaultInterface returns the embedded crowdfunding ABI.
func DefaultInterface() (abiutils.Interface, error) {
	return abiutils.LoadInterface("Crowdfunding", strings.NewReader(crowdfundingABI))
}

// LoadHandle builds the contract handle described by cfg.
func LoadHandle(cfg Config) (Handle, error) {
	if !common.IsHexAddress(cfg.Address) {
		return Handle{}, fmt.Errorf("%w: %q", ErrInvalidAddress, cfg.Address)
	}
	var (
		iface abiutils.Interface
		err   error
	)
	if cfg.ABIFile != "" {
		iface, err = abiutils.LoadInterfaceFile(cfg.ABIFile)
	} else {
		iface, err = DefaultInterface()
	}
	if err != nil {
		return Handle{}, err
	}
	return NewHandle(common.HexToAddress(cfg.Address), iface)
}
