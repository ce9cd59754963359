package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soratech/storefront/internal/backend"
)

func TestRegistryUnknownKeyIsError(t *testing.T) {
	reg := NewRegistry(backend.NewClient("http://backend", nil))

	_, err := reg.Get("spaceships")
	require.Error(t, err)

	d, err := reg.Get("products")
	require.NoError(t, err)
	require.Equal(t, "products", d.Key)
	require.True(t, d.SoftDelete)
}

func TestProductPayloadFallsBackToOriginal(t *testing.T) {
	original := backend.Record{
		"id": 4.0, "nameProduct": "RTX 4070", "article": "GPU-4070",
		"description": "old", "price": 55000.0, "stockQuantity": 3.0,
		"categoryId": 1.0, "supplierId": 2.0, "imageUrl": "a.png",
		"salesCount": 17.0, "deleted": false,
	}
	form := backend.Record{"price": "59990", "description": ""}

	payload := buildProductPayload(form, original)

	require.Equal(t, 59990.0, payload["price"])
	// Empty form fields fall back to the original values.
	require.Equal(t, "old", payload["description"])
	require.Equal(t, "RTX 4070", payload["nameProduct"])
	// Server-owned fields pass through untouched.
	require.Equal(t, 17.0, payload["salesCount"])
	require.Equal(t, false, payload["deleted"])
	require.Equal(t, 4, payload["id"])
}

func TestOrderPayloadOnlyMovesStatus(t *testing.T) {
	reg := NewRegistry(backend.NewClient("http://backend", nil))
	d, err := reg.Get("orders")
	require.NoError(t, err)
	require.True(t, d.ReadOnly)

	original := backend.Record{
		"id": 9.0, "orderNumber": "ORD-9", "totalAmount": 1200.0,
		"statusOrderId": 1.0, "userId": 3.0,
	}
	payload := d.BuildPayload(backend.Record{"statusOrderId": 4.0, "totalAmount": 1.0}, original)

	require.Equal(t, 4.0, payload["statusOrderId"])
	require.Equal(t, 1200.0, payload["totalAmount"])
	require.Equal(t, "ORD-9", payload["orderNumber"])
}

func TestReviewPayloadClampsRatingAndKeepsAuthor(t *testing.T) {
	reg := NewRegistry(backend.NewClient("http://backend", nil))
	d, err := reg.Get("reviews")
	require.NoError(t, err)

	original := backend.Record{"id": 2.0, "productId": 5.0, "userId": 7.0, "rating": 4.0, "reviewDate": "2026-01-02"}

	payload := d.BuildPayload(backend.Record{"rating": 9.0, "commentText": "отличная карта, берите"}, original)
	require.Equal(t, 5, payload["rating"])
	require.Equal(t, 5.0, payload["productId"])
	require.Equal(t, 7.0, payload["userId"])
	require.Equal(t, "2026-01-02", payload["reviewDate"])
}

func TestSupplierPayloadAllowsClearingContacts(t *testing.T) {
	reg := NewRegistry(backend.NewClient("http://backend", nil))
	d, err := reg.Get("suppliers")
	require.NoError(t, err)

	original := backend.Record{"id": 1.0, "nameSupplier": "ООО Поток", "phone": "+79990001122"}
	payload := d.BuildPayload(backend.Record{"phone": "", "nameSupplier": ""}, original)

	require.Equal(t, "", payload["phone"])
	require.Equal(t, "ООО Поток", payload["nameSupplier"])
}

func TestGetItemNameDegradesToPlaceholder(t *testing.T) {
	reg := NewRegistry(backend.NewClient("http://backend", nil))
	d, err := reg.Get("products")
	require.NoError(t, err)

	require.Equal(t, "Товар", d.GetItemName(backend.Record{}))
	require.Equal(t, "SSD 980", d.GetItemName(backend.Record{"nameProduct": "SSD 980"}))
}
