package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex inv_01HZX5R0J3Y8G3E6TN1S8B0C7Q
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_PARTY             = "party"
	UUID_PREFIX_ADDRESS           = "addr"
	UUID_PREFIX_PRODUCT           = "prod"
	UUID_PREFIX_PRICE_LIST        = "plist"
	UUID_PREFIX_INSURANCE         = "ins"
	UUID_PREFIX_INSURANCE_PLAN    = "insplan"
	UUID_PREFIX_HEALTH_SERVICE    = "hsvc"
	UUID_PREFIX_SERVICE_LINE      = "hsvc_line"
	UUID_PREFIX_INVOICE           = "inv"
	UUID_PREFIX_INVOICE_LINE_ITEM = "inv_line"
	UUID_PREFIX_JOURNAL           = "jrnl"
	UUID_PREFIX_AGENT             = "agent"
	UUID_PREFIX_COMMISSION_PLAN   = "complan"
	UUID_PREFIX_COMMISSION        = "com"
)
