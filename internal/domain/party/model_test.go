package party

import (
	"testing"

	"github.com/healthbill/healthbill/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParty_InvoiceAddress(t *testing.T) {
	p := &Party{
		ID: "patient",
		Addresses: []Address{
			{ID: "home", Type: types.AddressTypeDelivery},
			{ID: "billing", Type: types.AddressTypeInvoice},
			{ID: "office", Type: types.AddressTypeInvoice},
		},
	}

	addr, ok := p.InvoiceAddress()
	require.True(t, ok)
	assert.Equal(t, "billing", addr.ID)

	p.Addresses = p.Addresses[:1]
	_, ok = p.InvoiceAddress()
	assert.False(t, ok)
}
