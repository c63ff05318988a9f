package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/millops/internal/document"
)

// Role names used by registration and authentication
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleOperator = "operator"
	RoleDriver   = "driver"
)

// RegisterRequest defines an account registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	Vehicle  string `json:"vehicle,omitempty"`
}

func (r *RegisterRequest) validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return errors.Wrap(ErrValidation, "name, email and password are required")
	}
	return nil
}

// emailTaken reports whether any account in the document already uses
// the email, across all roles
func emailTaken(doc *document.Document, email string) bool {
	for _, a := range doc.Admins {
		if strings.EqualFold(a.Email, email) {
			return true
		}
	}
	for _, c := range doc.Customers {
		if strings.EqualFold(c.Email, email) {
			return true
		}
	}
	for _, o := range doc.Operators {
		if strings.EqualFold(o.Email, email) {
			return true
		}
	}
	for _, d := range doc.Drivers {
		if strings.EqualFold(d.Email, email) {
			return true
		}
	}
	return false
}

// RegisterCustomer creates a customer account. Credentials are stored
// in plaintext inside the document; there is no hashing or session
// layer in this deployment model.
func (s *Service) RegisterCustomer(ctx context.Context, req *RegisterRequest) (*document.Customer, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var created document.Customer
	err := s.repo.Update(ctx, func(doc *document.Document) error {
		if emailTaken(doc, req.Email) {
			return errors.Wrap(ErrValidation, "email already registered")
		}
		created = document.Customer{
			ID:        document.NextID(),
			Name:      req.Name,
			Email:     req.Email,
			Password:  req.Password,
			Phone:     req.Phone,
			Address:   req.Address,
			CreatedAt: time.Now(),
		}
		doc.Customers = append(doc.Customers, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("customer_id", created.ID).Msg("Customer registered")
	return &created, nil
}

// RegisterOperator creates an operator account
func (s *Service) RegisterOperator(ctx context.Context, req *RegisterRequest) (*document.Operator, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var created document.Operator
	err := s.repo.Update(ctx, func(doc *document.Document) error {
		if emailTaken(doc, req.Email) {
			return errors.Wrap(ErrValidation, "email already registered")
		}
		created = document.Operator{
			ID:          document.NextID(),
			Name:        req.Name,
			Email:       req.Email,
			Password:    req.Password,
			Phone:       req.Phone,
			Assignments: []string{},
			CreatedAt:   time.Now(),
		}
		doc.Operators = append(doc.Operators, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("operator_id", created.ID).Msg("Operator registered")
	return &created, nil
}

// RegisterDriver creates a driver account, initially offline
func (s *Service) RegisterDriver(ctx context.Context, req *RegisterRequest) (*document.Driver, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var created document.Driver
	err := s.repo.Update(ctx, func(doc *document.Document) error {
		if emailTaken(doc, req.Email) {
			return errors.Wrap(ErrValidation, "email already registered")
		}
		created = document.Driver{
			ID:        document.NextID(),
			Name:      req.Name,
			Email:     req.Email,
			Password:  req.Password,
			Phone:     req.Phone,
			Vehicle:   req.Vehicle,
			Status:    document.DriverOffline,
			CreatedAt: time.Now(),
		}
		doc.Drivers = append(doc.Drivers, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("driver_id", created.ID).Msg("Driver registered")
	return &created, nil
}

// Account is the role-agnostic authentication result
type Account struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Authenticate checks credentials for the given role. Comparison is
// plaintext, same as storage.
func (s *Service) Authenticate(ctx context.Context, role, email, password string) (*Account, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	switch role {
	case RoleAdmin:
		for _, a := range doc.Admins {
			if strings.EqualFold(a.Email, email) && a.Password == password {
				return &Account{ID: a.ID, Name: a.Name, Email: a.Email, Role: role}, nil
			}
		}
	case RoleCustomer:
		for _, c := range doc.Customers {
			if strings.EqualFold(c.Email, email) && c.Password == password {
				return &Account{ID: c.ID, Name: c.Name, Email: c.Email, Role: role}, nil
			}
		}
	case RoleOperator:
		for _, o := range doc.Operators {
			if strings.EqualFold(o.Email, email) && o.Password == password {
				return &Account{ID: o.ID, Name: o.Name, Email: o.Email, Role: role}, nil
			}
		}
	case RoleDriver:
		for _, d := range doc.Drivers {
			if strings.EqualFold(d.Email, email) && d.Password == password {
				return &Account{ID: d.ID, Name: d.Name, Email: d.Email, Role: role}, nil
			}
		}
	default:
		return nil, errors.Wrap(ErrValidation, "unknown role")
	}

	return nil, ErrInvalidCredentials
}

// UpdateDriverStatus changes a driver's availability
func (s *Service) UpdateDriverStatus(ctx context.Context, driverID int64, status document.DriverStatus) error {
	return s.repo.Update(ctx, func(doc *document.Document) error {
		driver := doc.FindDriver(driverID)
		if driver == nil {
			return errors.Wrap(ErrNotFound, "driver")
		}
		driver.Status = status
		return nil
	})
}

// UpdateDriverLocation records a driver's GPS position
func (s *Service) UpdateDriverLocation(ctx context.Context, driverID int64, loc document.Location) error {
	return s.repo.Update(ctx, func(doc *document.Document) error {
		driver := doc.FindDriver(driverID)
		if driver == nil {
			return errors.Wrap(ErrNotFound, "driver")
		}
		driver.Location = &loc
		return nil
	})
}

// SetOperatorAssignments replaces an operator's category assignments
func (s *Service) SetOperatorAssignments(ctx context.Context, operatorID int64, assignments []string) error {
	return s.repo.Update(ctx, func(doc *document.Document) error {
		operator := doc.FindOperator(operatorID)
		if operator == nil {
			return errors.Wrap(ErrNotFound, "operator")
		}
		operator.Assignments = assignments
		return nil
	})
}

// ListDrivers returns all drivers
func (s *Service) ListDrivers(ctx context.Context) ([]document.Driver, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Drivers, nil
}

// ListOperators returns all operators
func (s *Service) ListOperators(ctx context.Context) ([]document.Operator, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Operators, nil
}

// ListCustomers returns all customers
func (s *Service) ListCustomers(ctx context.Context) ([]document.Customer, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Customers, nil
}
