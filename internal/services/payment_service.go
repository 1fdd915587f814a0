// internal/services/payment_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

// PaymentGateway is the subset of the Stripe PaymentIntents API the
// service needs.
type PaymentGateway interface {
	CreateIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	GetIntent(id string) (*stripe.PaymentIntent, error)
}

type stripeGateway struct{}

func (stripeGateway) CreateIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return paymentintent.New(params)
}

func (stripeGateway) GetIntent(id string) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(id, nil)
}

type PaymentService struct {
	orders  *OrderService
	gateway PaymentGateway
	config  *config.Config
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

// NewPaymentService returns a service backed by Stripe, or one whose
// operations fail with ErrPaymentsDisabled when no secret key is set.
func NewPaymentService(orders *OrderService, config *config.Config) *PaymentService {
	var gateway PaymentGateway
	if config.Payment.StripeSecretKey != "" {
		stripe.Key = config.Payment.StripeSecretKey
		gateway = stripeGateway{}
	}
	return NewPaymentServiceWithGateway(orders, gateway, config)
}

func NewPaymentServiceWithGateway(orders *OrderService, gateway PaymentGateway, config *config.Config) *PaymentService {
	return &PaymentService{
		orders:  orders,
		gateway: gateway,
		config:  config,
	}
}

// CreatePaymentIntent starts a card payment for one of the user's pending
// orders.
func (s *PaymentService) CreatePaymentIntent(userID, orderID uuid.UUID) (*PaymentIntentResponse, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}

	order, err := s.orders.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrOrderNotPending
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.TotalAmount.Shift(2).Round(0).IntPart()),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("user_id", userID.String())

	pi, err := s.gateway.CreateIntent(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create payment intent: %v", ErrPaymentGateway, err)
	}

	if err := s.orders.setPaymentReference(order.ID, pi.ID); err != nil {
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}

	logrus.WithFields(logrus.Fields{"order_id": order.ID, "payment_id": pi.ID}).Info("Payment intent created")
	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPayment checks the intent with Stripe and moves the order to
// processing once the payment has succeeded.
func (s *PaymentService) ConfirmPayment(userID, orderID uuid.UUID, req *ConfirmPaymentRequest) (*models.Order, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	order, err := s.orders.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrOrderNotPending
	}
	if order.PaymentReference == "" || order.PaymentReference != req.PaymentIntentID {
		return nil, ErrPaymentMismatch
	}

	pi, err := s.gateway.GetIntent(req.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("%w: get payment intent: %v", ErrPaymentGateway, err)
	}
	if pi.Metadata["order_id"] != order.ID.String() {
		return nil, ErrPaymentMismatch
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, ErrPaymentIncomplete
	}

	moved, err := s.orders.markPaid(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if !moved {
		return nil, ErrOrderNotPending
	}

	logrus.WithFields(logrus.Fields{"order_id": order.ID, "payment_id": pi.ID}).Info("Order paid")
	return s.orders.GetOrder(userID, orderID)
}
