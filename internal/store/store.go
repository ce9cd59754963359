package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/soratech/storefront/internal/models"
)

const maxRecentlyViewed = 10

type Session struct {
	User          *models.User `json:"user"`
	Token         string       `json:"token"`
	Authenticated bool         `json:"isAuthenticated"`
}

type CartLine struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Store holds the per-client storefront state. Mutations are synchronous and
// each one writes the persisted snapshot through the bound persister.
// Instances are constructor-made so tests can run against isolated state.
type Store struct {
	mu             sync.Mutex
	session        Session
	cart           []CartLine
	favorites      []int
	comparison     []int
	recentlyViewed []int

	// modalView is UI state only and never part of the snapshot.
	modalView string

	key       string
	persister Persister
	logger    *slog.Logger
}

func New(key string, p Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{key: key, persister: p, logger: logger, modalView: "login"}
}

func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Store) SetSession(user *models.User, token string) {
	s.mu.Lock()
	s.session = Session{User: user, Token: token, Authenticated: user != nil}
	s.mu.Unlock()
	s.persist()
}

// ClearSession logs the client out and drops the personal state with it.
func (s *Store) ClearSession() {
	s.mu.Lock()
	s.session = Session{}
	s.cart = nil
	s.favorites = nil
	s.mu.Unlock()
	s.persist()
}

func (s *Store) Cart() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Store) Quantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.cart {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// AddToCart increments the quantity when the product is already present,
// otherwise appends a new line with quantity 1.
func (s *Store) AddToCart(p models.Product) {
	s.mu.Lock()
	found := false
	for i := range s.cart {
		if s.cart[i].ProductID == p.ID {
			s.cart[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.cart = append(s.cart, CartLine{
			ProductID: p.ID,
			Name:      p.NameProduct,
			Price:     p.Price,
			Quantity:  1,
		})
	}
	s.mu.Unlock()
	s.persist()
}

// UpdateQuantity sets the line quantity; zero or below removes the line.
func (s *Store) UpdateQuantity(productID, quantity int) {
	s.mu.Lock()
	if quantity <= 0 {
		s.cart = removeLine(s.cart, productID)
	} else {
		for i := range s.cart {
			if s.cart[i].ProductID == productID {
				s.cart[i].Quantity = quantity
				break
			}
		}
	}
	s.mu.Unlock()
	s.persist()
}

func (s *Store) RemoveFromCart(productID int) {
	s.mu.Lock()
	s.cart = removeLine(s.cart, productID)
	s.mu.Unlock()
	s.persist()
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	s.cart = nil
	s.mu.Unlock()
	s.persist()
}

func (s *Store) Favorites() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.favorites...)
}

func (s *Store) Comparison() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.comparison...)
}

// ToggleFavorite adds the id when absent and removes it when present, so a
// repeated call is a no-op on the set.
func (s *Store) ToggleFavorite(productID int) bool {
	s.mu.Lock()
	s.favorites, _ = toggle(s.favorites, productID)
	added := contains(s.favorites, productID)
	s.mu.Unlock()
	s.persist()
	return added
}

func (s *Store) ToggleComparison(productID int) bool {
	s.mu.Lock()
	s.comparison, _ = toggle(s.comparison, productID)
	added := contains(s.comparison, productID)
	s.mu.Unlock()
	s.persist()
	return added
}

func (s *Store) RecentlyViewed() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.recentlyViewed...)
}

// AddRecentlyViewed moves the id to the front, dropping any earlier mention
// and anything past the cap.
func (s *Store) AddRecentlyViewed(productID int) {
	s.mu.Lock()
	next := make([]int, 0, len(s.recentlyViewed)+1)
	next = append(next, productID)
	for _, id := range s.recentlyViewed {
		if id != productID {
			next = append(next, id)
		}
	}
	if len(next) > maxRecentlyViewed {
		next = next[:maxRecentlyViewed]
	}
	s.recentlyViewed = next
	s.mu.Unlock()
	s.persist()
}

func (s *Store) ModalView() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modalView
}

func (s *Store) SetModalView(view string) {
	s.mu.Lock()
	s.modalView = view
	s.mu.Unlock()
	// UI state is not persisted.
}

func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := s.Snapshot().Encode()
	if err != nil {
		s.logger.Error("store snapshot encode failed", "key", s.key, "error", err)
		return
	}
	if err := s.persister.Save(ctx, s.key, data); err != nil {
		s.logger.Error("store snapshot save failed", "key", s.key, "error", err)
	}
}

func removeLine(cart []CartLine, productID int) []CartLine {
	out := cart[:0]
	for _, line := range cart {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return out
}

func toggle(ids []int, id int) ([]int, bool) {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...), false
		}
	}
	return append(ids, id), true
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
