package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeResultsReadsSource(t *testing.T) {
	body := `{
		"took": 3,
		"hits": {
			"total": {"value": 2, "relation": "eq"},
			"hits": [
				{"_index": "products", "_id": "5", "_score": 1.2,
				 "_source": {"id": 5, "nameProduct": "SSD Kingston", "article": "SSD-5", "price": 4500, "stockQuantity": 7}},
				{"_index": "products", "_id": "9", "_score": 0.8,
				 "_source": {"id": 9, "nameProduct": "SSD Samsung", "article": "SSD-9", "price": 6900, "stockQuantity": 2}}
			]
		}
	}`

	res, err := decodeResults(strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, int64(2), res.Total)
	require.Len(t, res.Products, 2)
	require.Equal(t, 5, res.Products[0].ID)
	require.Equal(t, "SSD Kingston", res.Products[0].NameProduct)
	require.Equal(t, 4500.0, res.Products[0].Price)
	require.Equal(t, 9, res.Products[1].ID)
}

func TestDecodeResultsEmptyHits(t *testing.T) {
	res, err := decodeResults(strings.NewReader(`{"hits":{"total":{"value":0},"hits":[]}}`))
	require.NoError(t, err)
	require.Equal(t, int64(0), res.Total)
	require.Empty(t, res.Products)
}
