package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soratech/storefront/internal/models"
)

func product(id int) models.Product {
	return models.Product{ID: id, NameProduct: "GPU", Price: 100}
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	s := New("t", nil, nil)

	s.AddToCart(product(1))
	s.AddToCart(product(1))

	cart := s.Cart()
	require.Len(t, cart, 1)
	require.Equal(t, 2, cart[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	s := New("t", nil, nil)
	s.AddToCart(product(1))
	s.AddToCart(product(2))

	s.UpdateQuantity(1, 0)

	require.Equal(t, 0, s.Quantity(1))
	cart := s.Cart()
	require.Len(t, cart, 1)
	require.Equal(t, 2, cart[0].ProductID)
}

func TestUpdateQuantityNegativeRemovesLine(t *testing.T) {
	s := New("t", nil, nil)
	s.AddToCart(product(1))

	s.UpdateQuantity(1, -5)

	require.Empty(t, s.Cart())
}

func TestQuantityNeverNegative(t *testing.T) {
	s := New("t", nil, nil)
	s.AddToCart(product(1))
	s.UpdateQuantity(1, 3)
	s.UpdateQuantity(1, -1)
	s.AddToCart(product(1))

	for _, line := range s.Cart() {
		require.GreaterOrEqual(t, line.Quantity, 1)
	}
	require.Equal(t, 1, s.Quantity(1))
}

func TestToggleFavoriteTwiceIsNoop(t *testing.T) {
	s := New("t", nil, nil)
	s.ToggleFavorite(5)
	require.Equal(t, []int{5}, s.Favorites())

	s.ToggleFavorite(5)
	require.Empty(t, s.Favorites())
}

func TestToggleComparisonTwiceIsNoop(t *testing.T) {
	s := New("t", nil, nil)
	s.ToggleComparison(9)
	s.ToggleComparison(9)
	require.Empty(t, s.Comparison())
}

func TestRecentlyViewedBoundedAndDeduplicated(t *testing.T) {
	s := New("t", nil, nil)

	for id := 1; id <= 11; id++ {
		s.AddRecentlyViewed(id)
	}

	got := s.RecentlyViewed()
	require.Len(t, got, 10)
	require.Equal(t, []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}, got)
}

func TestRecentlyViewedRevisitMovesToFront(t *testing.T) {
	s := New("t", nil, nil)
	s.AddRecentlyViewed(1)
	s.AddRecentlyViewed(2)
	s.AddRecentlyViewed(3)
	s.AddRecentlyViewed(1)

	require.Equal(t, []int{1, 3, 2}, s.RecentlyViewed())
}

func TestClearSessionDropsPersonalState(t *testing.T) {
	s := New("t", nil, nil)
	s.SetSession(&models.User{ID: 3, Email: "a@b.ru"}, "tok")
	s.AddToCart(product(1))
	s.ToggleFavorite(2)
	s.AddRecentlyViewed(4)

	s.ClearSession()

	require.False(t, s.Session().Authenticated)
	require.Empty(t, s.Cart())
	require.Empty(t, s.Favorites())
	// Browsing history survives logout.
	require.Equal(t, []int{4}, s.RecentlyViewed())
}

func TestModalViewDefaultsToLogin(t *testing.T) {
	s := New("t", nil, nil)
	require.Equal(t, "login", s.ModalView())

	s.SetModalView("register")
	require.Equal(t, "register", s.ModalView())
}
