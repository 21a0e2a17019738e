package types

// HealthServiceState tracks whether a health service has been turned into an invoice
type HealthServiceState string

const (
	HealthServiceStateDraft    HealthServiceState = "draft"
	HealthServiceStateInvoiced HealthServiceState = "invoiced"
)

// AddressType marks what an address of a party may be used for
type AddressType string

const (
	AddressTypeInvoice  AddressType = "invoice"
	AddressTypeDelivery AddressType = "delivery"
	AddressTypeOther    AddressType = "other"
)
