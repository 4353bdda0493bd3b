package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeGateway is the slice of the Stripe API used for billing.
type StripeGateway interface {
	CreateCustomer(ctx context.Context, email string, userID uuid.UUID) (string, error)
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (string, error)
	CreatePortalSession(ctx context.Context, params *stripe.BillingPortalSessionParams) (string, error)
}

type stripeClientGateway struct {
	api *client.API
}

// NewStripeGateway builds a client bound to secretKey instead of the
// package-level stripe.Key.
func NewStripeGateway(secretKey string) StripeGateway {
	return &stripeClientGateway{api: client.New(secretKey, nil)}
}

func (g *stripeClientGateway) CreateCustomer(ctx context.Context, email string, userID uuid.UUID) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Metadata: map[string]string{
			stripeUserIDKey: userID.String(),
		},
	}
	params.Context = ctx
	cust, err := g.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (g *stripeClientGateway) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (string, error) {
	params.Context = ctx
	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (g *stripeClientGateway) CreatePortalSession(ctx context.Context, params *stripe.BillingPortalSessionParams) (string, error) {
	params.Context = ctx
	sess, err := g.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
