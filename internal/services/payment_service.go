package services

import (
	"errors"
	"fmt"
	"log"

	"labstore/internal/models"
	"labstore/internal/repository"
	"labstore/pkg/square"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentGateway is satisfied by *square.Client.
type PaymentGateway interface {
	CreatePayment(params square.PaymentParams) (*square.PaymentResult, error)
}

type PaymentService interface {
	// ProcessCardPayment exchanges a one-time card token for a charge. A
	// declined charge leaves the order pending so the customer can retry
	// with a freshly collected token.
	ProcessCardPayment(orderNumber string, sourceID string) error
	BitcoinAddress() string
}

type paymentService struct {
	orderRepo      repository.OrderRepository
	gateway        PaymentGateway
	bitcoinAddress string
}

func NewPaymentService(orderRepo repository.OrderRepository, gateway PaymentGateway, bitcoinAddress string) PaymentService {
	return &paymentService{orderRepo: orderRepo, gateway: gateway, bitcoinAddress: bitcoinAddress}
}

func (s *paymentService) ProcessCardPayment(orderNumber string, sourceID string) error {
	if sourceID == "" {
		return fmt.Errorf("%w: payment token is required", ErrValidation)
	}

	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %s", ErrNotFound, orderNumber)
		}
		return err
	}

	result, err := s.gateway.CreatePayment(square.PaymentParams{
		SourceID: sourceID,
		// A fresh key per attempt: a customer retry after a decline must
		// never be folded into the failed charge.
		IdempotencyKey: uuid.NewString(),
		AmountCents:    order.Total,
		OrderNumber:    order.OrderNumber,
		BuyerEmail:     order.CustomerEmail,
	})
	if err != nil {
		log.Printf("Payment gateway unreachable for order %s: %v", orderNumber, err)
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if !result.Completed {
		log.Printf("Payment declined for order %s: %s %s", orderNumber, result.ErrorCode, result.Detail)
		return fmt.Errorf("%w: %s", ErrPaymentDeclined, result.Detail)
	}

	return s.orderRepo.UpdatePaymentStatus(order.ID, string(models.PaymentCompleted))
}

func (s *paymentService) BitcoinAddress() string {
	return s.bitcoinAddress
}
