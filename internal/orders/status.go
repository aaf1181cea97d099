package orders

import "github.com/ariefcatur/go-shop-orders.git/internal/errs"

type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusRefund    Status = "refund"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusShipped: true, StatusRefund: true},
	StatusShipped:   {StatusDelivered: true, StatusRefund: true},
	StatusDelivered: {StatusRefund: true},
	StatusRefund:    {},
}

// CanTransition: lifecycle hanya maju. Set ulang status yg sama = no-op,
// supaya submit ulang dari admin tidak error.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return validNext[from][to]
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusShipped, StatusDelivered, StatusRefund:
		return st, nil
	}
	return "", errs.Newf(errs.KindValidation, "unknown order status: %q", s)
}

// Received: status yg dihitung sbg "barang pernah sampai di customer" —
// membuka hak review dan lookup ukuran utk beli lagi.
func (s Status) Received() bool {
	return s == StatusDelivered || s == StatusRefund
}

func ReceivedStatuses() []string {
	return []string{string(StatusDelivered), string(StatusRefund)}
}
