package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/email"
	"github.com/soratech/storefront/internal/models"
	"github.com/soratech/storefront/internal/mykafka"
	"github.com/soratech/storefront/internal/store"
)

// Service drives the checkout: advisory pre-submit checks, one atomic order
// creation, then best-effort receipt mail and event publishing.
type Service struct {
	Backend  *backend.Client
	Mailer   *email.Relay
	Producer *mykafka.Producer
	Logger   *slog.Logger
}

type Request struct {
	UserID    int
	Email     string
	Lines     []store.CartLine
	AddressID int
	Delivery  models.DeliveryType
	Payment   models.PaymentType
	// Products is the currently loaded catalog snapshot used for the
	// client-side stock re-check. The server remains authoritative.
	Products map[int]models.Product
}

func (s *Service) PlaceOrder(ctx context.Context, req Request) (*models.Order, error) {
	if err := s.precheck(req); err != nil {
		return nil, err
	}

	totals := Calculate(req.Lines, IsCourier(req.Delivery), IsCard(req.Payment))

	items := make([]models.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
		})
	}

	order := models.Order{
		UserID:          req.UserID,
		TotalAmount:     totals.Total,
		AddressID:       req.AddressID,
		DeliveryTypesID: req.Delivery.ID,
		PaymentTypesID:  req.Payment.ID,
		Items:           items,
	}

	created, err := s.Backend.Orders.Create(ctx, order, uuid.NewString())
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, created)

	// The order stands even if the receipt cannot be sent.
	if s.Mailer != nil && req.Email != "" {
		if err := s.Mailer.SendOrderReceipt(ctx, req.Email, created.OrderNumber, created.TotalAmount); err != nil {
			s.logger().Error("order receipt send failed", "order", created.OrderNumber, "error", err)
		}
	}

	return created, nil
}

func (s *Service) precheck(req Request) error {
	if len(req.Lines) == 0 {
		return fmt.Errorf("корзина пуста")
	}
	if req.AddressID <= 0 {
		return fmt.Errorf("не выбран адрес доставки")
	}
	if req.Delivery.ID <= 0 {
		return fmt.Errorf("не выбран способ доставки")
	}
	if req.Payment.ID <= 0 {
		return fmt.Errorf("не выбран способ оплаты")
	}
	for _, line := range req.Lines {
		p, ok := req.Products[line.ProductID]
		if !ok {
			continue
		}
		if p.StockQuantity < line.Quantity {
			return fmt.Errorf("недостаточно товара %q на складе: есть %d, нужно %d",
				p.NameProduct, p.StockQuantity, line.Quantity)
		}
	}
	return nil
}

func (s *Service) publishCreated(ctx context.Context, order *models.Order) {
	if s.Producer == nil {
		return
	}
	event := map[string]any{
		"type":        "order_created",
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"userID":      order.UserID,
		"total":       order.TotalAmount,
	}
	if err := s.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(order.UserID), event); err != nil {
		s.logger().Error("kafka publish error", "topic", "order_events", "error", err)
	}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
