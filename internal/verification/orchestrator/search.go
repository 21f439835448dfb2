package orchestrator

import (
	"context"

	"verigate/internal/verification/models"
)

// ProviderPage is one provider's slice of a cross-provider search.
type ProviderPage struct {
	ProviderID string                                    `json:"provider_id"`
	Page       *models.Page[models.CanonicalInstitution] `json:"page"`
}

// CombinedResults aggregates SearchAll.
type CombinedResults struct {
	Pages []ProviderPage `json:"pages"`
	Total int            `json:"total"`
}

// Search runs filters against one provider.
func (o *Orchestrator) Search(ctx context.Context, providerID string, filters models.SearchFilters) (*models.Page[models.CanonicalInstitution], error) {
	p, ok := o.registry.Get(providerID)
	if !ok {
		return nil, &UnsupportedProviderError{ProviderID: providerID}
	}
	if !p.Capabilities().Search {
		return nil, &UnsupportedCapabilityError{ProviderID: providerID, Capability: "search"}
	}
	return p.Search(ctx, filters)
}

// SearchAll searches every provider that supports it, one after another.
// Providers that fail are logged and left out.
func (o *Orchestrator) SearchAll(ctx context.Context, filters models.SearchFilters) *CombinedResults {
	out := &CombinedResults{Pages: []ProviderPage{}}
	for _, p := range o.registry.All() {
		if !p.Capabilities().Search {
			continue
		}
		page, err := p.Search(ctx, filters)
		if err != nil {
			o.logger.WarnContext(ctx, "provider search failed", "provider_id", p.ID(), "error", err)
			continue
		}
		out.Pages = append(out.Pages, ProviderPage{ProviderID: p.ID(), Page: page})
		out.Total += page.Total
	}
	return out
}
