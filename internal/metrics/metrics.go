// Package metrics exports search activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

const namespace = "ert"

// Metrics holds the collectors of one process. Each Metrics has its own registry.
type Metrics struct {
	registry *prometheus.Registry

	searches      *prometheus.CounterVec
	pathsExplored prometheus.Counter
	pruned        *prometheus.CounterVec
	deadPaths     prometheus.Counter
	duration      prometheus.Histogram
	bestReward    prometheus.Gauge
	bestResources prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches run, by outcome (ok, no_viable_path, error).",
		}, []string{"outcome"}),
		pathsExplored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paths_explored_total",
			Help:      "Trajectories created across all searches.",
		}),
		pruned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "investments_pruned_total",
			Help:      "Investments skipped during expansion, by reason.",
		}, []string{"reason"}),
		deadPaths: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dead_paths_total",
			Help:      "Trajectories dropped because the agent ran out of resources.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall-clock time of successful searches.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		bestReward: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_path_reward",
			Help:      "Reward of the best path found by the latest successful search.",
		}),
		bestResources: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_path_resources",
			Help:      "Final resources of the best path found by the latest successful search.",
		}),
	}
}

// ObserveSearch records the outcome of one search.
func (m *Metrics) ObserveSearch(res *strategy.Result, err error) {
	switch {
	case errors.Is(err, strategy.ErrNoViablePath):
		m.searches.WithLabelValues("no_viable_path").Inc()
		return
	case err != nil:
		m.searches.WithLabelValues("error").Inc()
		return
	}

	m.searches.WithLabelValues("ok").Inc()
	m.pathsExplored.Add(float64(res.Stats.Explored()))
	for reason, n := range res.Stats.Pruned {
		m.pruned.WithLabelValues(string(reason)).Add(float64(n))
	}
	m.deadPaths.Add(float64(res.Stats.DeadPaths))
	m.duration.Observe(res.Elapsed.Seconds())
	m.bestReward.Set(float64(res.Best.RewardToDate))
	m.bestResources.Set(float64(res.Best.ResourcesToSpend))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[INFO] metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
