package checkout

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	usecase "github.com/BruksfildServices01/practice-scheduler/internal/usecase/payment"
)

// MercadoPago creates checkout preferences (hosted payment pages).
type MercadoPago struct {
	client          preference.Client
	notificationURL string
}

// NewMercadoPago returns nil, nil when no access token is configured.
func NewMercadoPago(accessToken, notificationURL string) (*MercadoPago, error) {
	if accessToken == "" {
		return nil, nil
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: %w", err)
	}
	return &MercadoPago{
		client:          preference.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

func (m *MercadoPago) CreateLink(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutLink, error) {
	request := preference.Request{
		ExternalReference: req.Reference,
		NotificationURL:   m.notificationURL,
		Items: []preference.ItemRequest{
			{
				ID:         req.Reference,
				Title:      req.Title,
				Quantity:   1,
				UnitPrice:  req.Amount,
				CurrencyID: "BRL",
			},
		},
	}
	if req.PayerEmail != "" || req.PayerName != "" {
		request.Payer = &preference.PayerRequest{
			Name:  req.PayerName,
			Email: req.PayerEmail,
		}
	}

	resource, err := m.client.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create preference: %w", err)
	}

	return &usecase.CheckoutLink{
		ID:  resource.ID,
		URL: resource.InitPoint,
	}, nil
}
