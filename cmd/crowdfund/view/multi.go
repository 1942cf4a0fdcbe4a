package view

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/khanghh/crowdfund/cmd/crowdfund/syncer"
)

// Multi renders to every view it holds, in order.
type Multi []syncer.View

func (m Multi) RenderAccount(contract common.Address, account common.Address) {
	for _, v := range m {
		v.RenderAccount(contract, account)
	}
}

func (m Multi) RenderSnapshot(snapshot *syncer.Snapshot) {
	for _, v := range m {
		v.RenderSnapshot(snapshot)
	}
}

func (m Multi) RenderCampaigns(campaigns []syncer.Campaign) {
	for _, v := range m {
		v.RenderCampaigns(campaigns)
	}
}

func (m Multi) RenderTx(op syncer.Op, tx *types.Transaction) {
	for _, v := range m {
		v.RenderTx(op, tx)
	}
}

func (m Multi) Alert(err error) {
	for _, v := range m {
		v.Alert(err)
	}
}
