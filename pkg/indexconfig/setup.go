package indexconfig

import (
	"context"
	"fmt"
)

// Setup creates the index of every provider and applies its settings,
// waiting for each task in turn. With no providers it uses the registry.
// It stops at the first failure.
func Setup(ctx context.Context, client Client, providers ...Provider) ([]*Index, error) {
	if len(providers) == 0 {
		providers = Registered()
	}

	indexes := make([]*Index, 0, len(providers))
	for _, p := range providers {
		index, err := p.GenerateIndex(ctx, client)
		if err != nil {
			return indexes, fmt.Errorf("create index %s: %w", p.IndexName(), err)
		}
		if _, err := index.UpdateSettings(ctx, p.GenerateSettings()); err != nil {
			return indexes, fmt.Errorf("configure index %s: %w", p.IndexName(), err)
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}
