// Package payments carries the credit top-up charge integration. The
// production processor is an external service; this client is the
// development stand-in that approves every charge.
package payments

import (
	"context"

	"github.com/google/uuid"

	"github.com/thinksaga/recruitkart-sub003/pkg/logger"
)

// StubGateway approves every charge and fabricates a charge id. Used in
// development and staging; production wires a real processor behind the
// same interface.
type StubGateway struct{}

func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

func (g *StubGateway) Charge(ctx context.Context, userID string, amountCents int64) (string, error) {
	chargeID := "ch_" + uuid.NewString()
	logger.Log.Info("stub payment charge approved",
		"user_id", userID,
		"amount_cents", amountCents,
		"charge_id", chargeID)
	return chargeID, nil
}
