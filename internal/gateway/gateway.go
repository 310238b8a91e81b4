package gateway

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	mrand "math/rand"
	"time"
)

// Outcome is the four-way result a payment gateway returns for an
// authorization attempt.
type Outcome string

const (
	OutcomeSuccess           Outcome = "SUCCESS"
	OutcomeInsufficientFunds Outcome = "INSUFFICIENT_FUNDS"
	OutcomeIncorrectDetails  Outcome = "INCORRECT_DETAILS"
	OutcomeServerError       Outcome = "SERVER_ERROR"
)

// TokenTTL is how long an authorization token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// outcomeThresholds maps a uniform draw in [0,1) to an outcome by
// cumulative probability: 60% success, 17% insufficient funds, 17%
// incorrect details, 6% server error.
var outcomeThresholds = []struct {
	limit   float64
	outcome Outcome
}{
	{0.60, OutcomeSuccess},
	{0.77, OutcomeInsufficientFunds},
	{0.94, OutcomeIncorrectDetails},
	{math.Inf(1), OutcomeServerError},
}

// gatewayCodes carries the fixed diagnostic code/message pair per outcome.
var gatewayCodes = map[Outcome]struct {
	Code    string
	Message string
}{
	OutcomeSuccess:           {"00", "Approved"},
	OutcomeInsufficientFunds: {"51", "Insufficient funds"},
	OutcomeIncorrectDetails:  {"14", "Incorrect card details"},
	OutcomeServerError:       {"XX", "Authorization server error"},
}

type AuthorizeRequest struct {
	OrderID string
	Amount  float64
	Last4   string
}

type AuthorizeResult struct {
	Outcome       Outcome
	Code          string
	Message       string
	AuthToken     string
	AuthExpiresAt time.Time
}

// Approved reports whether the attempt yielded a usable authorization.
func (r AuthorizeResult) Approved() bool {
	return r.Outcome == OutcomeSuccess
}

// Authorizer is the gateway abstraction the orchestrator depends on.
// Production wiring uses the weighted mock; tests inject a fixed outcome.
type Authorizer interface {
	Authorize(req AuthorizeRequest) AuthorizeResult
}

// MockGateway stands in for a real payment processor. It draws a uniform
// value per attempt and maps it through the outcome table above.
type MockGateway struct {
	draw func() float64
	now  func() time.Time
}

type Option func(*MockGateway)

// WithDraw overrides the random source; used by tests to force outcomes.
func WithDraw(draw func() float64) Option {
	return func(g *MockGateway) { g.draw = draw }
}

// WithClock overrides the time source for token expiry.
func WithClock(now func() time.Time) Option {
	return func(g *MockGateway) { g.now = now }
}

func NewMockGateway(opts ...Option) *MockGateway {
	g := &MockGateway{
		draw: mrand.Float64,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *MockGateway) Authorize(req AuthorizeRequest) AuthorizeResult {
	outcome := outcomeFor(g.draw())
	diag := gatewayCodes[outcome]

	result := AuthorizeResult{
		Outcome: outcome,
		Code:    diag.Code,
		Message: diag.Message,
	}
	if outcome == OutcomeSuccess {
		result.AuthToken = NewAuthToken(req.OrderID)
		result.AuthExpiresAt = g.now().Add(TokenTTL)
	}
	return result
}

func outcomeFor(draw float64) Outcome {
	for _, t := range outcomeThresholds {
		if draw < t.limit {
			return t.outcome
		}
	}
	return OutcomeServerError
}

// NewAuthToken builds an opaque settlement-eligibility token: the order id
// with a random hex suffix.
func NewAuthToken(orderID string) string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return orderID + "-" + hex.EncodeToString(buf)
}
