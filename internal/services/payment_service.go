package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"dreamsaver/internal/config"
	"dreamsaver/internal/models/db_models"
	"dreamsaver/internal/models/request_models"
	"dreamsaver/internal/models/response_models"
	"dreamsaver/internal/repositories"
	"dreamsaver/pkg/metrics"
	"dreamsaver/pkg/utils"
)

const (
	stripeUserIDKey = "user_id"
	stripeProvider  = "stripe"

	// MaxWebhookBodyBytes caps what the webhook endpoint reads.
	MaxWebhookBodyBytes = int64(65536)
)

// Billing event results, as reported to metrics.
const (
	billingApplied   = "applied"
	billingDuplicate = "duplicate"
	billingIgnored   = "ignored"
	billingUnmatched = "unmatched"
	billingFailed    = "failed"
)

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, userID uuid.UUID, request request_models.CheckoutRequest) (*response_models.RedirectURLResponse, error)
	CreatePortalSession(ctx context.Context, userID uuid.UUID, request request_models.PortalRequest) (*response_models.RedirectURLResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*response_models.WebhookAckResponse, error)
}

type paymentService struct {
	gateway  StripeGateway
	profiles repositories.ProfileRepository
	events   repositories.BillingEventRepository
	cfg      config.StripeConfig
	enabled  bool
	log      *zap.Logger
}

// NewPaymentService accepts a nil gateway when billing is not configured;
// checkout and portal then fail with ErrBillingNotConfigured.
func NewPaymentService(
	gateway StripeGateway,
	profiles repositories.ProfileRepository,
	events repositories.BillingEventRepository,
	cfg *config.Config,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		gateway:  gateway,
		profiles: profiles,
		events:   events,
		cfg:      cfg.Stripe,
		enabled:  gateway != nil && cfg.BillingEnabled(),
		log:      log.Named("payment"),
	}
}

func (p *paymentService) frontendURL(path string) string {
	return strings.TrimRight(p.cfg.FrontendURL, "/") + path
}

// redirectURL returns requested when it points into the frontend, the
// default page when requested is empty, and ErrInvalidInput otherwise.
func (p *paymentService) redirectURL(requested, defaultPath string) (string, error) {
	if requested == "" {
		return p.frontendURL(defaultPath), nil
	}

	base, err := url.Parse(strings.TrimRight(p.cfg.FrontendURL, "/"))
	if err != nil || base.Host == "" {
		return "", fmt.Errorf("%w: redirect urls are not accepted", utils.ErrInvalidInput)
	}
	target, err := url.Parse(requested)
	if err != nil || target.User != nil ||
		!strings.EqualFold(target.Scheme, base.Scheme) ||
		!strings.EqualFold(target.Host, base.Host) {
		return "", fmt.Errorf("%w: redirect url must stay on %s", utils.ErrInvalidInput, base.Host)
	}
	if base.Path != "" && target.Path != base.Path && !strings.HasPrefix(target.Path, base.Path+"/") {
		return "", fmt.Errorf("%w: redirect url must stay under %s", utils.ErrInvalidInput, base.Path)
	}
	return requested, nil
}

func (p *paymentService) CreateCheckoutSession(ctx context.Context, userID uuid.UUID, request request_models.CheckoutRequest) (*response_models.RedirectURLResponse, error) {
	if !p.enabled {
		return nil, utils.ErrBillingNotConfigured
	}

	successURL, err := p.redirectURL(request.SuccessURL, "/dashboard?upgraded=true")
	if err != nil {
		return nil, err
	}
	cancelURL, err := p.redirectURL(request.CancelURL, "/upgrade")
	if err != nil {
		return nil, err
	}

	profile, err := p.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerID, err := p.ensureCustomer(ctx, profile)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{stripeUserIDKey: userID.String()}
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.cfg.PriceIDProMonthly),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		ClientReferenceID: stripe.String(userID.String()),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Metadata = metadata

	sessionURL, err := p.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		p.log.Error("stripe checkout session failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: stripe checkout: %v", utils.ErrUpstreamUnavailable, err)
	}
	return &response_models.RedirectURLResponse{URL: sessionURL}, nil
}

func (p *paymentService) CreatePortalSession(ctx context.Context, userID uuid.UUID, request request_models.PortalRequest) (*response_models.RedirectURLResponse, error) {
	if !p.enabled {
		return nil, utils.ErrBillingNotConfigured
	}

	returnURL, err := p.redirectURL(request.ReturnURL, "/dashboard")
	if err != nil {
		return nil, err
	}

	profile, err := p.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.StripeCustomerID == nil || *profile.StripeCustomerID == "" {
		return nil, utils.ErrNoStripeCustomer
	}

	sessionURL, err := p.gateway.CreatePortalSession(ctx, &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*profile.StripeCustomerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		p.log.Error("stripe portal session failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: stripe portal: %v", utils.ErrUpstreamUnavailable, err)
	}
	return &response_models.RedirectURLResponse{URL: sessionURL}, nil
}

func (p *paymentService) loadProfile(ctx context.Context, userID uuid.UUID) (*db_models.Profile, error) {
	profile, err := p.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load profile: %v", utils.ErrDatabaseError, err)
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}
	return profile, nil
}

// ensureCustomer returns the stored Stripe customer, creating and saving one
// on first checkout.
func (p *paymentService) ensureCustomer(ctx context.Context, profile *db_models.Profile) (string, error) {
	if profile.StripeCustomerID != nil && *profile.StripeCustomerID != "" {
		return *profile.StripeCustomerID, nil
	}

	customerID, err := p.gateway.CreateCustomer(ctx, profile.Email, profile.ID)
	if err != nil {
		return "", fmt.Errorf("%w: stripe customer: %v", utils.ErrUpstreamUnavailable, err)
	}
	if err := p.profiles.SetStripeCustomerID(ctx, profile.ID, customerID); err != nil {
		return "", fmt.Errorf("%w: save stripe customer: %v", utils.ErrDatabaseError, err)
	}
	return customerID, nil
}

func (p *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*response_models.WebhookAckResponse, error) {
	if p.cfg.WebhookSecret == "" {
		return nil, utils.ErrBillingNotConfigured
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		p.cfg.WebhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		p.log.Warn("stripe webhook signature failed", zap.Error(err))
		return nil, utils.ErrInvalidSignature
	}

	eventType := string(event.Type)
	ack := &response_models.WebhookAckResponse{Received: true, EventType: eventType}

	duplicate, err := p.events.Record(ctx, &db_models.BillingEvent{
		Provider:        stripeProvider,
		ProviderEventID: event.ID,
		Type:            eventType,
		Payload:         datatypes.JSON(payload),
	})
	if err != nil {
		metrics.RecordBillingEvent(eventType, billingFailed)
		return nil, fmt.Errorf("%w: record billing event: %v", utils.ErrDatabaseError, err)
	}
	if duplicate {
		metrics.RecordBillingEvent(eventType, billingDuplicate)
		ack.Duplicate = true
		return ack, nil
	}

	result, err := p.applyEvent(ctx, event)
	if err != nil {
		metrics.RecordBillingEvent(eventType, billingFailed)
		if forgetErr := p.events.Forget(ctx, event.ID); forgetErr != nil {
			p.log.Error("forget failed billing event", zap.String("event_id", event.ID), zap.Error(forgetErr))
		}
		return nil, err
	}

	metrics.RecordBillingEvent(eventType, result)
	p.log.Info("stripe event processed",
		zap.String("event_id", event.ID),
		zap.String("type", eventType),
		zap.String("result", result))
	return ack, nil
}

func (p *paymentService) applyEvent(ctx context.Context, event stripe.Event) (string, error) {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return "", fmt.Errorf("%w: checkout session: %v", utils.ErrInvalidPayload, err)
		}
		if sess.Subscription == nil || sess.Subscription.ID == "" {
			return billingIgnored, nil
		}
		userID := sess.Metadata[stripeUserIDKey]
		if userID == "" {
			userID = sess.ClientReferenceID
		}
		subID := sess.Subscription.ID
		return p.setSubscription(ctx, userID, customerIDOf(sess.Customer), true, &subID)

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "", fmt.Errorf("%w: subscription: %v", utils.ErrInvalidPayload, err)
		}
		if event.Type == "customer.subscription.deleted" {
			return p.setSubscription(ctx, sub.Metadata[stripeUserIDKey], customerIDOf(sub.Customer), false, nil)
		}
		isPro := sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing
		subID := sub.ID
		return p.setSubscription(ctx, sub.Metadata[stripeUserIDKey], customerIDOf(sub.Customer), isPro, &subID)

	default:
		return billingIgnored, nil
	}
}

func customerIDOf(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

// setSubscription resolves the profile by user id first and falls back to
// the Stripe customer id.
func (p *paymentService) setSubscription(ctx context.Context, rawUserID, customerID string, isPro bool, subscriptionID *string) (string, error) {
	if userID, err := uuid.Parse(rawUserID); err == nil {
		updated, err := p.profiles.SetSubscription(ctx, userID, isPro, subscriptionID)
		if err != nil {
			return "", fmt.Errorf("%w: update subscription: %v", utils.ErrDatabaseError, err)
		}
		if updated {
			if customerID != "" {
				if err := p.profiles.SetStripeCustomerID(ctx, userID, customerID); err != nil {
					p.log.Warn("save stripe customer", zap.String("user_id", userID.String()), zap.Error(err))
				}
			}
			return billingApplied, nil
		}
	}

	if customerID != "" {
		updated, err := p.profiles.SetSubscriptionByCustomer(ctx, customerID, isPro, subscriptionID)
		if err != nil {
			return "", fmt.Errorf("%w: update subscription: %v", utils.ErrDatabaseError, err)
		}
		if updated {
			return billingApplied, nil
		}
	}

	p.log.Warn("stripe event matched no profile",
		zap.String("user_id", rawUserID),
		zap.String("customer_id", customerID))
	return billingUnmatched, nil
}
