// Package metrics collects what a run costs: Prometheus counters and
// histograms per reduction, runtime memory snapshots and process CPU time.
package metrics
