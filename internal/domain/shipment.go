package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ShipmentStatus represents the stored outcome of a shipment creation.
type ShipmentStatus string

// List of possible shipment statuses
const (
	ShipmentCreated ShipmentStatus = "created"
	ShipmentFailed  ShipmentStatus = "failed"
)

// ShipmentRequest is the carrier-facing request derived from an Order.
// One parcel per piece; the carrier answers with one label and one tracking
// number per parcel.
type ShipmentRequest struct {
	IdempotencyKey string
	OrderID        string
	Shipper        Party
	Recipient      Party
	Parcels        []Parcel
	LabelFormat    string
}

// Parcel carries package weight and dimensions.
type Parcel struct {
	WeightKg float64
	LengthCm float64
	WidthCm  float64
	HeightCm float64
}

// BuildParcels packs line items into parcels, splitting when a parcel would
// exceed maxWeightKg. Items heavier than the limit get a parcel of their own.
func BuildParcels(items []LineItem, maxWeightKg float64) []Parcel {
	if maxWeightKg <= 0 {
		maxWeightKg = 1e9
	}
	var out []Parcel
	current := Parcel{}
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			if current.WeightKg > 0 && current.WeightKg+it.WeightKg > maxWeightKg {
				out = append(out, current)
				current = Parcel{}
			}
			current.WeightKg += it.WeightKg
		}
	}
	if current.WeightKg > 0 || len(out) == 0 {
		out = append(out, current)
	}
	return out
}

// ShipmentResult is the carrier's answer: one or more tracking numbers and
// one label payload per piece, stored under the request's idempotency key.
type ShipmentResult struct {
	IdempotencyKey  string
	OrderID         string
	Status          ShipmentStatus
	TrackingNumbers []string
	LabelFormat     string
	Labels          [][]byte
	CreatedAt       time.Time
}

// IdempotencyKeyFor derives the shipment idempotency key for an order.
// The derivation is deterministic, never random: every retry of the same
// order carries the same key, so the carrier sees at most one shipment.
func IdempotencyKeyFor(orderID string) string {
	sum := sha256.Sum256([]byte("ship/" + orderID))
	return hex.EncodeToString(sum[:16])
}
