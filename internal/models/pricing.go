// internal/models/pricing.go
package models

// Taker types. Retakers may only pay in full.
const (
	TakerFirstTime = "first-time"
	TakerRetaker   = "retaker"
)

// Payment types. Staggered splits the quote into a pay-now and a pay-later
// installment.
const (
	PaymentFull      = "full"
	PaymentStaggered = "staggered"
)

// PriceEntry is one row of a remotely configured price table. Step 0 or 1
// entries are due up front; step 2 entries form the second installment.
type PriceEntry struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Taxable     bool    `json:"taxable"`
	Step        int     `json:"step"`
}

// ServiceConfig is one price table keyed by service+state+payment type.
type ServiceConfig struct {
	ID          string       `json:"id"`
	ServiceName string       `json:"serviceName"`
	State       string       `json:"state"`
	PaymentType string       `json:"paymentType"`
	LineItems   []PriceEntry `json:"lineItems"`
	TotalFull   float64      `json:"totalFull"`
	TotalStep1  float64      `json:"totalStep1"`
	TotalStep2  float64      `json:"totalStep2"`
	TaxAmount   float64      `json:"taxAmount"`
	TaxStep1    float64      `json:"taxStep1"`
	TaxStep2    float64      `json:"taxStep2"`
}

// LineItem is one priced component of a quote. Total = Quantity × UnitPrice;
// tax is carried at the quote level, not folded into Total.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
	Taxable     bool    `json:"taxable"`
	PayLater    bool    `json:"payLater"`
}

// PriceQuote is the pricing engine output. For staggered payment the
// Subtotal/Tax/Total cover only the pay-now partition while LineItems retains
// both partitions tagged via PayLater.
type PriceQuote struct {
	LineItems   []LineItem `json:"lineItems"`
	Subtotal    float64    `json:"subtotal"`
	Tax         float64    `json:"tax"`
	Total       float64    `json:"total"`
	PaymentType string     `json:"paymentType"`
	TakerType   string     `json:"takerType"`
}

// Payment references a submitted record and the amount due now.
type Payment struct {
	ID            string  `json:"id"`
	ApplicationID string  `json:"applicationId"`
	PaymentType   string  `json:"paymentType"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

// Quotation is a persisted public price quote.
type Quotation struct {
	ID          string     `json:"id"`
	DisplayID   string     `json:"displayId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Mobile      string     `json:"mobile"`
	Service     string     `json:"service"`
	State       string     `json:"state"`
	TakerType   string     `json:"takerType"`
	PaymentType string     `json:"paymentType"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	LineItems   []LineItem `json:"lineItems"`
	Subtotal    float64    `json:"subtotal"`
	Tax         float64    `json:"tax"`
	CreatedAt   string     `json:"createdAt"`
}
