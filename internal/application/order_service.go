package application

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/printforge/printforge-api/internal/domain/entity"
	repo "github.com/printforge/printforge-api/internal/domain/repository"
	"github.com/printforge/printforge-api/pkg/mailer"
)

// Fulfilment buffer added on top of the print time when estimating
// completion.
const fulfilmentBuffer = 24 * time.Hour

type OrderService struct {
	Orders repo.OrderRepository
	Models repo.ModelRepository
	Users  repo.UserRepository
	Logger *logrus.Logger
	Mail   EmailQueue

	now func() time.Time
}

func NewOrderService(orders repo.OrderRepository, models repo.ModelRepository, users repo.UserRepository,
	logger *logrus.Logger, mail EmailQueue) *OrderService {
	return &OrderService{Orders: orders, Models: models, Users: users, Logger: logger, Mail: mail, now: time.Now}
}

type CreateOrderInput struct {
	ModelID         string
	Spec            SpecInput
	TotalPrice      float64
	DeliveryAddress string
	Phone           string
}

type CreateOrderResult struct {
	Order        *entity.Order
	PointsEarned int
}

// OrderRewardPoints is 1 point per 100 rubles of order value, floor 10.
func OrderRewardPoints(totalPrice float64) int {
	p := int(math.Floor(totalPrice / 100))
	if p < 10 {
		return 10
	}
	return p
}

// CreateOrder snapshots the model and user names into a new pending order and
// credits the ledger. The total price is the one the client asserted at
// checkout; the server does not recompute it from the print spec. A non-existent
// model fails the whole call and writes nothing; the model's visibility is
// not checked, a private model is orderable by anyone holding its id.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*CreateOrderResult, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	model, err := s.Models.GetByID(ctx, in.ModelID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, err
	}

	spec := in.Spec.Resolve()
	now := s.now().UTC()
	printDuration := time.Duration(spec.PrintTimeHours * float64(time.Hour))

	o := &entity.Order{
		UserID:              user.ID,
		UserName:            user.Name,
		ModelID:             model.ID,
		ModelName:           model.Name,
		Spec:                spec,
		TotalPrice:          in.TotalPrice,
		DeliveryAddress:     in.DeliveryAddress,
		Phone:               in.Phone,
		Status:              entity.OrderStatusPending,
		PaymentStatus:       entity.PaymentStatusPending,
		EstimatedCompletion: now.Add(printDuration + fulfilmentBuffer),
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, err
	}

	points := OrderRewardPoints(in.TotalPrice)
	if err := s.Users.Credit(ctx, user.ID, repo.CounterDelta{Points: points, OrdersCount: 1}); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", user.ID).Error("order reward credit failed")
	}

	s.enqueueConfirmationEmail(ctx, user, o)

	return &CreateOrderResult{Order: o, PointsEarned: points}, nil
}

// ListForUser returns every order of one user, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

// enqueueConfirmationEmail is best-effort; the order stands even if the queue
// is down.
func (s *OrderService) enqueueConfirmationEmail(ctx context.Context, u *entity.User, o *entity.Order) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateOrderConfirmation,
		Data: map[string]any{
			"Name":                u.Name,
			"ModelName":           o.ModelName,
			"TotalPrice":          Round2(o.TotalPrice),
			"EstimatedCompletion": o.EstimatedCompletion.Format(time.RFC3339),
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID).Warn("enqueue order confirmation failed")
	}
}
