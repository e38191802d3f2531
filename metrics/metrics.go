package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/op-regress/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "regress"
)

var (
	Debug                bool = true
	validStatuses             = []types.CommandStatus{types.CommandStatusSuccess, types.CommandStatusError, types.CommandStatusTimeout, types.CommandStatusSignaled}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testsResolved = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_resolved",
		Help:      "Number of test entries matched by the last resolution",
	})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "commands_total",
		Help:      "Count of executed commands",
	}, []string{
		"status",
	})

	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "command_duration_seconds",
		Help:      "Duration of executed commands",
		Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
	}, []string{
		"status",
	})

	regressionResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "regression_results",
		Help:      "Result of regression runs",
	}, []string{
		"run_id",
		"result",
	})

	regressionCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "regression_commands_total",
		Help:      "Total number of commands in a regression run",
	}, []string{
		"run_id",
	})

	regressionCommandsPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "regression_commands_passed",
		Help:      "Number of passed commands in a regression run",
	}, []string{
		"run_id",
	})

	regressionCommandsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "regression_commands_failed",
		Help:      "Number of failed commands in a regression run",
	}, []string{
		"run_id",
	})

	regressionDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "regression_duration",
		Help:      "Duration of regression runs",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

func RecordResolved(count int) {
	testsResolved.Set(float64(count))
}

func RecordCommand(status types.CommandStatus, duration time.Duration) {
	if !isValidStatus(status) {
		log.Error("RecordCommand - invalid status", "status", status)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "commands_total",
			"status", status,
			"duration", duration)
	}
	commandsTotal.WithLabelValues(status.String()).Inc()
	commandDuration.WithLabelValues(status.String()).Observe(duration.Seconds())
}

func RecordRegression(
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	regressionResults.WithLabelValues(runID, result).Set(1)
	regressionCommandsTotal.WithLabelValues(runID).Add(float64(total))
	regressionCommandsPassed.WithLabelValues(runID).Add(float64(passed))
	regressionCommandsFailed.WithLabelValues(runID).Add(float64(failed))
	regressionDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func isValidStatus(status types.CommandStatus) bool {
	return slices.Contains(validStatuses, status)
}
