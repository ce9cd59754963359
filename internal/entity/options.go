package entity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/soratech/storefront/internal/backend"
)

type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// Lookup entities that have no admin table of their own.
var builtinLookupPaths = map[string]string{
	"roles":          "/api/Roles",
	"order-statuses": "/api/StatusOrders",
}

// OptionsLoader resolves foreign-key selects for the generic form: each FK
// field loads its option list in parallel, and a failed load leaves that
// select empty instead of blocking the form.
type OptionsLoader struct {
	Registry Registry
	Client   *backend.Client
	Logger   *slog.Logger
}

func (l *OptionsLoader) Load(ctx context.Context, fields []FormField) map[string][]Option {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	options := make(map[string][]Option)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, field := range fields {
		if field.Kind != FieldFK || field.Lookup == nil {
			continue
		}
		wg.Add(1)
		go func(field FormField) {
			defer wg.Done()
			opts, err := l.loadOne(ctx, *field.Lookup)
			if err != nil {
				logger.Error("lookup load failed", "field", field.Name, "entity", field.Lookup.Entity, "error", err)
				opts = []Option{}
			}
			mu.Lock()
			options[field.Name] = opts
			mu.Unlock()
		}(field)
	}
	wg.Wait()
	return options
}

func (l *OptionsLoader) loadOne(ctx context.Context, lookup Lookup) ([]Option, error) {
	rows, err := l.listLookup(ctx, lookup.Entity)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(rows))
	for _, rec := range rows {
		label := stringField(rec, lookup.LabelKey)
		if label == "" {
			label = "-"
		}
		opts = append(opts, Option{Value: rec[lookup.ValueKey], Label: label})
	}
	return opts, nil
}

func (l *OptionsLoader) listLookup(ctx context.Context, entityKey string) ([]backend.Record, error) {
	if d, err := l.Registry.Get(entityKey); err == nil {
		return d.API.List(ctx)
	}
	if path, ok := builtinLookupPaths[entityKey]; ok {
		return l.Client.ListRaw(ctx, path, nil)
	}
	return nil, fmt.Errorf("unknown lookup entity %q", entityKey)
}
