package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"labstore/internal/models"
	"labstore/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobLocker keeps the recovery scan a singleton across schedulers. It is
// satisfied by *redis.Client.
type JobLocker interface {
	AcquireLock(name string, ttl time.Duration) (bool, error)
	ReleaseLock(name string) error
}

const recoveryLockName = "abandoned-cart-recovery"

type RecoveryStats struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

type RecoveryService interface {
	// TrackCheckout records a started-but-unfinished checkout. Repeated
	// calls for the same email update the open cart instead of stacking.
	TrackCheckout(email, name string, items []models.CartItem, totalCents int) error
	GetOpenCart(email string) (*models.AbandonedCart, error)
	// ProcessRecovery scans for carts past the recovery age and sends one
	// recovery email each. Send failures are logged, never retried here.
	ProcessRecovery() (RecoveryStats, error)
}

type recoveryService struct {
	cartRepo    repository.AbandonedCartRepository
	mailer      MailerService
	locker      JobLocker
	frontendURL string
	minAge      time.Duration
	sendDelay   time.Duration
}

func NewRecoveryService(
	cartRepo repository.AbandonedCartRepository,
	mailer MailerService,
	locker JobLocker,
	frontendURL string,
	minAge time.Duration,
) RecoveryService {
	return &recoveryService{
		cartRepo:    cartRepo,
		mailer:      mailer,
		locker:      locker,
		frontendURL: frontendURL,
		minAge:      minAge,
		sendDelay:   time.Second,
	}
}

func (s *recoveryService) TrackCheckout(email, name string, items []models.CartItem, totalCents int) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	cartData, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	return s.cartRepo.Upsert(&models.AbandonedCart{
		CustomerEmail: email,
		CustomerName:  name,
		CartData:      string(cartData),
		TotalCents:    totalCents,
		RecoveryToken: uuid.NewString(),
	})
}

func (s *recoveryService) GetOpenCart(email string) (*models.AbandonedCart, error) {
	cart, err := s.cartRepo.GetOpenByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: no open cart for %s", ErrNotFound, email)
		}
		return nil, err
	}
	return cart, nil
}

func (s *recoveryService) ProcessRecovery() (RecoveryStats, error) {
	if s.locker != nil {
		acquired, err := s.locker.AcquireLock(recoveryLockName, 10*time.Minute)
		if err != nil {
			return RecoveryStats{}, err
		}
		if !acquired {
			log.Println("Recovery job already running elsewhere, skipping")
			return RecoveryStats{}, nil
		}
		defer func() {
			if err := s.locker.ReleaseLock(recoveryLockName); err != nil {
				log.Printf("Failed to release recovery lock: %v", err)
			}
		}()
	}

	carts, err := s.cartRepo.GetForRecovery(time.Now().Add(-s.minAge))
	if err != nil {
		return RecoveryStats{}, err
	}
	if len(carts) == 0 {
		return RecoveryStats{}, nil
	}

	log.Printf("Recovery job found %d abandoned carts", len(carts))

	stats := RecoveryStats{Processed: len(carts)}
	for i, cart := range carts {
		checkoutURL := fmt.Sprintf("%s/checkout?email=%s", s.frontendURL, url.QueryEscape(cart.CustomerEmail))
		if err := s.mailer.SendCartRecovery(&cart, checkoutURL); err != nil {
			stats.Failed++
			log.Printf("Failed to send recovery email to %s: %v", cart.CustomerEmail, err)
		} else {
			if err := s.cartRepo.MarkRecoverySent(cart.ID); err != nil {
				log.Printf("Failed to mark recovery sent for cart %d: %v", cart.ID, err)
			}
			stats.Sent++
		}

		// Pace sends so the notification provider does not throttle us.
		if i < len(carts)-1 {
			time.Sleep(s.sendDelay)
		}
	}

	log.Printf("Recovery job completed: sent=%d failed=%d", stats.Sent, stats.Failed)
	return stats, nil
}
