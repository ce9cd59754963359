package search

import (
	"context"
	"strings"

	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/models"
)

// CatalogScan is the fallback used when no elasticsearch node is configured:
// a case-insensitive substring match over name and article of the live
// catalog.
func CatalogScan(c *backend.Client) SearchFunc {
	return func(ctx context.Context, query string, from, size int) (Results, error) {
		products, err := c.Products.GetAll(ctx)
		if err != nil {
			return Results{}, err
		}

		needle := strings.ToLower(query)
		var matched []models.Product
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.NameProduct), needle) ||
				strings.Contains(strings.ToLower(p.Article), needle) {
				matched = append(matched, p)
			}
		}

		total := len(matched)
		if from >= total {
			return Results{Total: int64(total)}, nil
		}
		if from+size > total {
			size = total - from
		}
		return Results{Total: int64(total), Products: matched[from : from+size]}, nil
	}
}
