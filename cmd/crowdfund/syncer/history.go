package syncer

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
)

type TxStatus int

const (
	TxPending TxStatus = iota
	TxMined
	TxFailed
	TxUnknown // no receipt before the wait ended
)

func (s TxStatus) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxMined:
		return "mined"
	case TxFailed:
		return "failed"
	case TxUnknown:
		return "unknown"
	}
	return "unknown"
}

// TxRecord is a transaction submitted by this client.
type TxRecord struct {
	Op        Op
	Hash      common.Hash
	From      common.Address
	Value     *big.Int
	Status    TxStatus
	Submitted time.Time
}

// txHistory keeps the most recent submitted transactions, evicting the
// oldest once full.
type txHistory struct {
	mu    sync.Mutex
	cache *lru.Cache // common.Hash -> *TxRecord
}

func newTxHistory(size int) *txHistory {
	cache, _ := lru.New(size)
	return &txHistory{cache: cache}
}

func (h *txHistory) add(record TxRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache.Add(record.Hash, &record)
}

func (h *txHistory) setStatus(hash common.Hash, status TxStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if value, ok := h.cache.Peek(hash); ok {
		value.(*TxRecord).Status = status
	}
}

// recent returns copies of the kept records, newest first.
func (h *txHistory) recent() []TxRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := h.cache.Keys()
	records := make([]TxRecord, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if value, ok := h.cache.Peek(keys[i]); ok {
			records = append(records, *value.(*TxRecord))
		}
	}
	return records
}
