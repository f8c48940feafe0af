package entity

import (
	"time"
)

// HostCheck is the result of a reachability check.
type HostCheck struct {
	Host      string
	Reachable bool
	Error     string
}

// Diagnostics describes how the Click integration is set up. Secret values are never included.
type Diagnostics struct {
	ServiceID      string
	MerchantID     string
	MerchantUserID string
	Missing        []string
	FiscalMissing  []string
	VATPercent     int
	Hosts          []HostCheck
	TestPaymentURL string
	StoreReachable bool
	StoreError     string
	CheckedAt      time.Time
}

func (d Diagnostics) Configured() bool {
	return len(d.Missing) == 0
}

func (d Diagnostics) FiscalConfigured() bool {
	return len(d.FiscalMissing) == 0
}
