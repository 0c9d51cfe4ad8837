package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type CheckoutRequest struct {
	Reference  string
	Title      string
	Amount     float64
	PayerEmail string
	PayerName  string
}

type CheckoutLink struct {
	ID  string
	URL string
}

// CheckoutProvider creates hosted payment pages.
type CheckoutProvider interface {
	CreateLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)
}

type CreateCheckoutLink struct {
	repo     domain.Repository
	provider CheckoutProvider
	audit    *audit.Dispatcher
}

func NewCreateCheckoutLink(repo domain.Repository, provider CheckoutProvider, audit *audit.Dispatcher) *CreateCheckoutLink {
	return &CreateCheckoutLink{repo: repo, provider: provider, audit: audit}
}

func (uc *CreateCheckoutLink) Execute(ctx context.Context, userID, paymentID uint) (*models.Payment, error) {
	if uc.provider == nil {
		return nil, httperr.ErrBusiness("checkout_unavailable")
	}

	user, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user_not_found")
	}

	p, err := uc.repo.Get(ctx, userID, paymentID)
	if err != nil {
		return nil, notFound(err, "payment_not_found")
	}

	// only open income can be charged
	if p.Amount <= 0 || domain.Status(p.Status) == domain.StatusPaid {
		return nil, httperr.ErrBusiness("payment_not_chargeable")
	}

	if p.CheckoutURL != "" {
		return p, nil
	}

	req := CheckoutRequest{
		Reference: strconv.FormatUint(uint64(p.ID), 10),
		Title:     checkoutTitle(user),
		Amount:    p.Amount,
	}
	if p.ClientID != nil {
		if client, err := uc.repo.GetClient(ctx, userID, *p.ClientID); err == nil {
			req.PayerName = client.Name
			req.PayerEmail = client.Email
		}
	}

	link, err := uc.provider.CreateLink(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	p.CheckoutID = link.ID
	p.CheckoutURL = link.URL
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "payment_checkout_created",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return p, nil
}

func checkoutTitle(user *models.User) string {
	if user.PracticeName != "" {
		return "Sessão - " + user.PracticeName
	}
	return "Sessão - " + user.Name
}
