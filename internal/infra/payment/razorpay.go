package payment

import (
	"context"

	"rentwheels/internal/pkg/config"
	"rentwheels/internal/pkg/errs"
	"rentwheels/internal/usecase/commands"

	"github.com/razorpay/razorpay-go"
)

var (
	errIntentCreateFailed = errs.New("payment link creation failed")
	errIntentFetchFailed  = errs.New("payment link fetch failed")
	errMalformedResponse  = errs.New("malformed gateway response")
)

// paymentLinkAPI is the slice of the Razorpay SDK this adapter touches.
// Narrowing it to an interface keeps the gateway testable without network.
type paymentLinkAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(id string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway creates payment links for bookings. A link doubles as the
// payment intent: its id is the stored reference and its short URL is where
// the renter completes payment.
type RazorpayGateway struct {
	links paymentLinkAPI
}

func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return &RazorpayGateway{links: client.PaymentLink}
}

// NewRazorpayGatewayWithAPI injects the SDK surface directly; used by tests.
func NewRazorpayGatewayWithAPI(links paymentLinkAPI) *RazorpayGateway {
	return &RazorpayGateway{links: links}
}

func (g *RazorpayGateway) CreateIntent(_ context.Context, in commands.PaymentIntentInput) (*commands.PaymentIntent, error) {
	// Payment links take a single callback_url; Razorpay appends the payment
	// status to the redirect, so there is no separate failure URL to send and
	// in.FailureURL is handled by the callback endpoint.
	data := map[string]interface{}{
		"amount":          in.AmountCents,
		"currency":        in.Currency,
		"description":     in.Description,
		"callback_url":    in.SuccessURL,
		"callback_method": "get",
	}
	if in.MethodType != "" {
		data["options"] = map[string]interface{}{
			"checkout": map[string]interface{}{
				"method": map[string]interface{}{in.MethodType: "1"},
			},
		}
	}
	if len(in.Metadata) > 0 {
		notes := make(map[string]interface{}, len(in.Metadata))
		for k, v := range in.Metadata {
			notes[k] = v
		}
		data["notes"] = notes
	}

	resp, err := g.links.Create(data, nil)
	if err != nil {
		return nil, errs.Mark(err, errIntentCreateFailed)
	}
	return intentFromResponse(resp)
}

func (g *RazorpayGateway) GetIntent(_ context.Context, id string) (*commands.PaymentIntent, error) {
	resp, err := g.links.Fetch(id, nil, nil)
	if err != nil {
		return nil, errs.Mark(err, errIntentFetchFailed)
	}
	return intentFromResponse(resp)
}

func intentFromResponse(resp map[string]interface{}) (*commands.PaymentIntent, error) {
	id, ok := resp["id"].(string)
	if !ok || id == "" {
		return nil, errMalformedResponse
	}

	intent := &commands.PaymentIntent{ID: id}
	if url, ok := resp["short_url"].(string); ok && url != "" {
		intent.RedirectURL = &url
	}
	return intent, nil
}
