package domain

// Order is one order record fetched from the order platform. It is read-only
// input for a ship sequence; a replayed sequence re-fetches it.
type Order struct {
	ID         string
	Recipient  Party
	Items      []LineItem
	References []string
}

// Party is one side of a shipment (shipper or recipient).
type Party struct {
	Name    string
	Phone   string
	Email   string
	Address Address
}

// Address is a postal address.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// LineItem is a single order position.
type LineItem struct {
	SKU      string
	Quantity int
	WeightKg float64
}

// TotalWeightKg sums the weight of all line items.
func (o Order) TotalWeightKg() float64 {
	var total float64
	for _, it := range o.Items {
		q := it.Quantity
		if q < 1 {
			q = 1
		}
		total += it.WeightKg * float64(q)
	}
	return total
}
