package kafka

import (
	"strings"
	"time"
)

// ShipCommand asks the fulfillment service to run one ship sequence.
type ShipCommand struct {
	OrderID       string
	CorrelationID string
	RequestedAt   time.Time
}

// ShipCommandDTO is the wire form of one ship command.
type ShipCommandDTO struct {
	OrderID       string    `json:"order_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	RequestedAt   time.Time `json:"requested_at,omitempty"`
}

// ToDomain converts ShipCommandDTO to a ShipCommand.
func ToDomain(dto ShipCommandDTO) ShipCommand {
	return ShipCommand{
		OrderID:       strings.TrimSpace(dto.OrderID),
		CorrelationID: strings.TrimSpace(dto.CorrelationID),
		RequestedAt:   dto.RequestedAt,
	}
}
