package accounting

// Configuration holds the company wide accounting defaults used when a party has none
type Configuration struct {
	DefaultAccountReceivableID   *string `json:"default_account_receivable_id,omitempty" db:"default_account_receivable_id"`
	DefaultCustomerPaymentTermID *string `json:"default_customer_payment_term_id,omitempty" db:"default_customer_payment_term_id"`
}

// JournalType classifies journals
type JournalType string

const (
	JournalTypeRevenue JournalType = "revenue"
	JournalTypeExpense JournalType = "expense"
	JournalTypeCash    JournalType = "cash"
)

// Journal is an accounting journal invoices are posted into
type Journal struct {
	ID   string      `json:"id" db:"id"`
	Name string      `json:"name" db:"name"`
	Type JournalType `json:"type" db:"type"`
}
