package reviews

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-shop-orders.git/internal/auth"
	"github.com/ariefcatur/go-shop-orders.git/internal/errs"
)

type Store interface {
	Insert(ctx context.Context, rv *Review) error
	Get(ctx context.Context, id string) (*Review, error)
	Update(ctx context.Context, rv *Review) error
	MarkDeleted(ctx context.Context, id string) error
	ListByProduct(ctx context.Context, productID string) ([]ReviewView, error)
}

// Eligibility dipenuhi purchases.Service.
type Eligibility interface {
	EligibleToReview(ctx context.Context, userID, productID, size string) (bool, error)
}

type Service struct {
	Store     Store
	Purchases Eligibility
	Log       *zap.Logger
}

type CreateInput struct {
	ProductID string
	Size      string
	Content   string
	Rate      int
	Image     string
}

type UpdateInput struct {
	Content string
	Rate    int
	Image   string
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (*Review, error) {
	if !actor.Authenticated() {
		return nil, errs.New(errs.KindUnauthorized, "login required")
	}
	if in.ProductID == "" || in.Size == "" {
		return nil, errs.New(errs.KindValidation, "product and size are required")
	}
	if err := validateMutable(in.Content, in.Rate); err != nil {
		return nil, err
	}

	ok, err := s.Purchases.EligibleToReview(ctx, actor.ID, in.ProductID, in.Size)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.New(errs.KindNotPurchased, "only purchased products can be reviewed")
	}

	rv := &Review{
		ID:      uuid.NewString(),
		UserID:  actor.ID,
		Content: in.Content,
		Rate:    in.Rate,
		Image:   in.Image,
		Item:    Item{ProductID: in.ProductID, Size: in.Size},
	}
	if err := s.Store.Insert(ctx, rv); err != nil {
		return nil, err
	}
	s.Log.Info("review created",
		zap.String("review_id", rv.ID),
		zap.String("product_id", in.ProductID),
		zap.String("size", in.Size))
	return rv, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, reviewID string, in UpdateInput) (*Review, error) {
	rv, err := s.owned(ctx, actor, reviewID, "only the author can edit a review")
	if err != nil {
		return nil, err
	}
	if err := validateMutable(in.Content, in.Rate); err != nil {
		return nil, err
	}
	rv.Content = in.Content
	rv.Rate = in.Rate
	rv.Image = in.Image
	if err := s.Store.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// Delete set tombstone. Idempotent: hapus review yg sudah terhapus tidak error.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, reviewID string) error {
	rv, err := s.owned(ctx, actor, reviewID, "only the author can delete a review")
	if err != nil {
		return err
	}
	return s.Store.MarkDeleted(ctx, rv.ID)
}

func (s *Service) ListByProduct(ctx context.Context, productID string) ([]ReviewView, error) {
	return s.Store.ListByProduct(ctx, productID)
}

func (s *Service) owned(ctx context.Context, actor auth.Actor, reviewID, denied string) (*Review, error) {
	if !actor.Authenticated() {
		return nil, errs.New(errs.KindUnauthorized, "login required")
	}
	rv, err := s.Store.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.UserID != actor.ID {
		return nil, errs.New(errs.KindForbidden, denied)
	}
	return rv, nil
}

func validateMutable(content string, rate int) error {
	if content == "" {
		return errs.New(errs.KindValidation, "content is required")
	}
	if rate < 1 || rate > 5 {
		return errs.New(errs.KindValidation, "rate must be between 1 and 5")
	}
	return nil
}
