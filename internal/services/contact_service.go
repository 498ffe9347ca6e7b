package services

import (
	"errors"
	"fmt"

	"labstore/internal/models"
	"labstore/internal/repository"

	"gorm.io/gorm"
)

type ContactService interface {
	Submit(contact *models.Contact) error
	GetAll() ([]models.Contact, error)
	UpdateStatus(id uint, status string, adminNotes string) error
}

type contactService struct {
	contactRepo repository.ContactRepository
}

func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) Submit(contact *models.Contact) error {
	if contact.Name == "" || contact.Email == "" || contact.Subject == "" || contact.Message == "" {
		return fmt.Errorf("%w: name, email, subject and message are required", ErrValidation)
	}
	contact.Status = string(models.ContactNew)
	return s.contactRepo.Create(contact)
}

func (s *contactService) GetAll() ([]models.Contact, error) {
	return s.contactRepo.GetAll()
}

func (s *contactService) UpdateStatus(id uint, status string, adminNotes string) error {
	if !models.ValidContactStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if _, err := s.contactRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: contact %d", ErrNotFound, id)
		}
		return err
	}
	return s.contactRepo.UpdateStatus(id, status, adminNotes)
}
