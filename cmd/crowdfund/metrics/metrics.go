// Package metrics defines the client's Prometheus collectors and the HTTP
// endpoint exporting them.
package metrics

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/params"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crowdfund"

// Operation results.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

var (
	operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "operations_total",
			Help:      "Client operations by result",
		},
		[]string{"op", "result"},
	)
	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "operation_duration_seconds",
			Help:      "Duration of client operations that reached the contract",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"op"},
	)
	targetAmount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "campaign",
		Name:      "target_amount_ether",
		Help:      "Target amount of the campaign",
	})
	currentContributions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "campaign",
		Name:      "current_contributions_ether",
		Help:      "Contributions raised so far",
	})
	timeLeft = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "campaign",
		Name:      "time_left_seconds",
		Help:      "Seconds until the campaign ends",
	})
	activeCampaigns = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "campaign",
		Name:      "active_total",
		Help:      "Number of active campaigns at the last listing",
	})
)

// ObserveOperation counts an operation. Only operations that reached the
// contract have their duration recorded.
func ObserveOperation(op string, result string, elapsed time.Duration) {
	operations.WithLabelValues(op, result).Inc()
	if result == ResultOK || result == ResultFailed {
		operationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}

func toEther(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	ether, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), new(big.Float).SetInt64(params.Ether)).Float64()
	return ether
}

// SetCampaign publishes the last refreshed campaign state. The ether values
// are approximations for graphing only.
func SetCampaign(target, contributions *big.Int, secondsLeft uint64) {
	targetAmount.Set(toEther(target))
	currentContributions.Set(toEther(contributions))
	timeLeft.Set(float64(secondsLeft))
}

func SetActiveCampaigns(count int) {
	activeCampaigns.Set(float64(count))
}
