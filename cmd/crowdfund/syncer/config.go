package syncer

import "time"

type Config struct {
	CallTimeout  time.Duration // Timeout of read-only contract calls
	TxTimeout    time.Duration // Timeout of a transaction from submission until mined
	Debounce     time.Duration // Minimum interval between two calls of the same operation, 0 disables
	PollInterval time.Duration // Refresh interval of the watcher
	HistorySize  int           // Number of submitted transactions remembered
}

var DefaultConfig = Config{
	CallTimeout:  15 * time.Second,
	TxTimeout:    10 * time.Minute,
	Debounce:     time.Second,
	PollInterval: 15 * time.Second,
	HistorySize:  32,
}

func (c *Config) sanitize() {
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultConfig.CallTimeout
	}
	if c.TxTimeout <= 0 {
		c.TxTimeout = DefaultConfig.TxTimeout
	}
	if c.Debounce < 0 {
		c.Debounce = 0
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultConfig.PollInterval
	}
	if c.HistorySize <= 0 {
		c.HistorySize = DefaultConfig.HistorySize
	}
}
