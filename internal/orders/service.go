package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-shop-orders.git/internal/auth"
	"github.com/ariefcatur/go-shop-orders.git/internal/errs"
	"github.com/ariefcatur/go-shop-orders.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-shop-orders.git/internal/kafka"
)

type Store interface {
	Create(ctx context.Context, o *Order) error
	SetStatus(ctx context.Context, orderNum string, to Status) (*Order, error)
	GetStatus(ctx context.Context, orderNum string) (Status, error)
	List(ctx context.Context, f Filter) ([]OrderView, int, error)
	ListByUser(ctx context.Context, userID string) ([]OrderView, error)
}

type StockChecker interface {
	Shortages(ctx context.Context, items []inventory.Item) ([]inventory.Shortage, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service mengorkestrasi placement & lifecycle order. Identitas actor
// dipass eksplisit, bukan diambil dari ambient state.
type Service struct {
	Store         Store
	Stock         StockChecker
	Created       Publisher // topic order.created
	StatusChanged Publisher // topic order.status.changed
	ServiceName   string
	Log           *zap.Logger
}

type PlaceInput struct {
	ShipTo     ShipTo
	Contact    Contact
	TotalPrice decimal.Decimal
	Items      []Item
}

// Place: cek stok (tanpa mutasi, semua kekurangan dilaporkan sekaligus) ->
// reserve + persist dalam satu transaksi di store -> publish event.
func (s *Service) Place(ctx context.Context, actor auth.Actor, in PlaceInput) (string, error) {
	if !actor.Authenticated() {
		return "", errs.New(errs.KindUnauthorized, "login required")
	}
	if err := validatePlace(in); err != nil {
		return "", err
	}

	shortages, err := s.Stock.Shortages(ctx, ledgerItems(in.Items))
	if err != nil {
		return "", err
	}
	if len(shortages) > 0 {
		return "", errs.New(errs.KindInsufficientStock, inventory.JoinMessages(shortages))
	}

	o := &Order{
		ID:         uuid.NewString(),
		UserID:     actor.ID,
		ShipTo:     in.ShipTo,
		Contact:    in.Contact,
		TotalPrice: in.TotalPrice,
		Items:      in.Items,
		Status:     StatusPending,
	}
	if err := s.Store.Create(ctx, o); err != nil {
		return "", err
	}

	s.Log.Info("order placed",
		zap.String("order_num", o.OrderNum),
		zap.String("user_id", o.UserID),
		zap.Int("items", len(o.Items)))
	s.publishCreated(o)
	return o.OrderNum, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor auth.Actor, orderNum, status string) (*Order, error) {
	if !actor.Authenticated() {
		return nil, errs.New(errs.KindUnauthorized, "login required")
	}
	if !actor.Admin {
		return nil, errs.New(errs.KindForbidden, "admin permission required")
	}
	to, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.Store.SetStatus(ctx, orderNum, to)
	if err != nil {
		return nil, err
	}
	s.Log.Info("order status updated",
		zap.String("order_num", o.OrderNum),
		zap.String("status", string(o.Status)))
	s.publishStatusChanged(o)
	return o, nil
}

func (s *Service) Status(ctx context.Context, actor auth.Actor, orderNum string) (Status, error) {
	if !actor.Authenticated() {
		return "", errs.New(errs.KindUnauthorized, "login required")
	}
	return s.Store.GetStatus(ctx, orderNum)
}

func (s *Service) List(ctx context.Context, actor auth.Actor, f Filter) ([]OrderView, int, error) {
	if !actor.Authenticated() {
		return nil, 0, errs.New(errs.KindUnauthorized, "login required")
	}
	if !actor.Admin {
		return nil, 0, errs.New(errs.KindForbidden, "admin permission required")
	}
	return s.Store.List(ctx, f)
}

func (s *Service) ListMine(ctx context.Context, actor auth.Actor) ([]OrderView, error) {
	if !actor.Authenticated() {
		return nil, errs.New(errs.KindUnauthorized, "login required")
	}
	return s.Store.ListByUser(ctx, actor.ID)
}

func validatePlace(in PlaceInput) error {
	if len(in.Items) == 0 {
		return errs.New(errs.KindValidation, "order has no items")
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Size == "" {
			return errs.New(errs.KindValidation, "item is missing product or size")
		}
		if it.Qty <= 0 {
			return errs.Newf(errs.KindValidation, "invalid qty for product %s", it.ProductID)
		}
	}
	if in.TotalPrice.IsNegative() {
		return errs.New(errs.KindValidation, "total price cannot be negative")
	}
	return nil
}

func (s *Service) publishCreated(o *Order) {
	if s.Created == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: o.OrderNum,
		Payload: kafkax.MustMarshal(OrderCreatedPayload{
			OrderNum:   o.OrderNum,
			UserID:     o.UserID,
			Items:      o.Items,
			TotalPrice: o.TotalPrice.String(),
		}),
	}
	s.Created.Publish(PartitionKey(o.OrderNum), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) publishStatusChanged(o *Order) {
	if s.StatusChanged == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: o.OrderNum,
		Payload: kafkax.MustMarshal(OrderStatusChangedPayload{
			OrderNum: o.OrderNum,
			UserID:   o.UserID,
			Status:   o.Status,
			Items:    o.Items,
		}),
	}
	s.StatusChanged.Publish(PartitionKey(o.OrderNum), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
