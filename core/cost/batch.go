package cost

import (
	"context"

	"golang.org/x/sync/errgroup"

	"solar-capex/core/types"
)

// AggregateAll evaluates scenarios concurrently. Results keep input order.
// The first failure cancels the rest.
func AggregateAll(ctx context.Context, scenarios []*types.Scenario) ([]*types.ScenarioTotals, error) {
	results := make([]*types.ScenarioTotals, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			totals, err := Aggregate(s)
			if err != nil {
				return err
			}
			results[i] = totals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
