package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"verigate/internal/verification/models"
	"verigate/internal/verification/providers"
)

const (
	healthyBelow  = 2 * time.Second
	degradedBelow = 5 * time.Second
)

// HealthCheck probes every registered provider concurrently. It always
// returns one entry per provider, ordered by id.
func (o *Orchestrator) HealthCheck(ctx context.Context) []models.ProviderHealth {
	ps := o.registry.All()
	results := make([]models.ProviderHealth, len(ps))

	var g errgroup.Group
	for i, p := range ps {
		g.Go(func() error {
			results[i] = o.probe(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].ProviderID < results[j].ProviderID })
	return results
}

func (o *Orchestrator) probe(ctx context.Context, p providers.Provider) models.ProviderHealth {
	probeCtx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	defer cancel()

	start := time.Now()
	err := p.Health(probeCtx)
	latency := time.Since(start)

	h := models.ProviderHealth{
		ProviderID: p.ID(),
		Status:     classify(latency, err),
		LatencyMs:  latency.Milliseconds(),
		CheckedAt:  o.now(),
	}
	if err != nil {
		h.Error = err.Error()
		o.logger.WarnContext(ctx, "provider probe failed", "provider_id", h.ProviderID, "error", err)
	}
	o.metrics.SetProviderHealth(h.ProviderID, healthLevel(h.Status))
	return h
}

// classify maps a probe to healthy (<2s), degraded (2-5s) or down.
func classify(latency time.Duration, err error) models.HealthStatus {
	switch {
	case err != nil:
		return models.HealthDown
	case latency < healthyBelow:
		return models.HealthHealthy
	case latency <= degradedBelow:
		return models.HealthDegraded
	default:
		return models.HealthDown
	}
}

func healthLevel(s models.HealthStatus) float64 {
	switch s {
	case models.HealthHealthy:
		return 0
	case models.HealthDegraded:
		return 1
	}
	return 2
}

// SystemStatus summarizes HealthCheck. The system is healthy when no
// provider is down.
func (o *Orchestrator) SystemStatus(ctx context.Context) models.SystemStatus {
	health := o.HealthCheck(ctx)
	var down, degraded int
	for _, h := range health {
		switch h.Status {
		case models.HealthDown:
			down++
		case models.HealthDegraded:
			degraded++
		}
	}

	status := models.SystemStatus{
		Healthy:         down == 0,
		Providers:       health,
		Recommendations: []string{},
	}
	if down > 0 {
		status.Recommendations = append(status.Recommendations,
			fmt.Sprintf("%d integration(s) are down. Check API keys and network connectivity.", down))
	}
	if degraded > 0 {
		status.Recommendations = append(status.Recommendations,
			fmt.Sprintf("%d integration(s) are experiencing issues. Monitor for latency.", degraded))
	}
	return status
}
