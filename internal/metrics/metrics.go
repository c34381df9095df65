package metrics

import (
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	spawnsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "childproc",
		Name:      "spawns_total",
		Help:      "Total number of processes launched, by launch mode.",
	}, []string{"mode"})

	exitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "childproc",
		Name:      "exits_total",
		Help:      "Total number of observed process exits, by exit code.",
	}, []string{"code"})

	waitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "childproc",
		Name:      "wait_seconds",
		Help:      "Time from launch to observed exit in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
	})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "childproc",
		Name:      "build_info",
		Help:      "Build metadata for the running childproc binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(spawnsTotal, exitsTotal, waitSeconds, buildInfo)
}

// Registry returns the Prometheus registry containing all childproc metrics.
func Registry() *prometheus.Registry {
	return registry
}

// IncSpawn records a launched process.
func IncSpawn(mode string) {
	if mode == "" {
		mode = "unknown"
	}
	spawnsTotal.WithLabelValues(mode).Inc()
}

// ObserveExit records one observed process exit and the time spent from
// launch to exit.
func ObserveExit(code int, sinceLaunch time.Duration) {
	exitsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	waitSeconds.Observe(sinceLaunch.Seconds())
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}
