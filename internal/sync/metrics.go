package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharecount",
		Subsystem: "sync",
		Name:      "passes_total",
		Help:      "Synchronize passes by entity kind and result.",
	}, []string{"entity", "result"})

	pushFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharecount",
		Subsystem: "sync",
		Name:      "push_failures_total",
		Help:      "Failed remote push batches; pending rows are retried next pass.",
	}, []string{"entity"})

	optimisticPushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharecount",
		Subsystem: "sync",
		Name:      "optimistic_pushes_total",
		Help:      "Single-entity optimistic pushes by entity kind and outcome.",
	}, []string{"entity", "outcome"})

	mergedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharecount",
		Subsystem: "sync",
		Name:      "merged_rows_total",
		Help:      "Merge planner decisions by entity kind and action.",
	}, []string{"entity", "action"})
)

func observePlan[T Syncable](entity string, plan Plan[T]) {
	mergedRows.WithLabelValues(entity, "upsert").Add(float64(len(plan.Upserts)))
	mergedRows.WithLabelValues(entity, "push").Add(float64(len(plan.Pushes)))
	mergedRows.WithLabelValues(entity, "remote_delete").Add(float64(len(plan.RemoteDeletes)))
	mergedRows.WithLabelValues(entity, "purge").Add(float64(len(plan.Purges)))
}

func observePush(entity string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	optimisticPushes.WithLabelValues(entity, outcome).Inc()
}
