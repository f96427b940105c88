package domain

import (
	"fmt"
	"sort"
)

// Capability is a single permission checked by the API. Values are
// "resource:action".
type Capability string

const (
	CapClientView        Capability = "client:view"
	CapClientManage      Capability = "client:manage"
	CapLeadView          Capability = "lead:view"
	CapLeadManage        Capability = "lead:manage"
	CapEstimationView    Capability = "estimation:view"
	CapEstimationManage  Capability = "estimation:manage"
	CapEstimationApprove Capability = "estimation:approve"
	CapInvoiceView       Capability = "invoice:view"
	CapInvoiceManage     Capability = "invoice:manage"
	CapPaymentRecord     Capability = "payment:record"
	CapReportView        Capability = "report:view"
	CapSettingsManage    Capability = "settings:manage"
	CapUserManage        Capability = "user:manage"
)

// AllCapabilities is the closed set of capabilities.
var AllCapabilities = []Capability{
	CapClientView, CapClientManage,
	CapLeadView, CapLeadManage,
	CapEstimationView, CapEstimationManage, CapEstimationApprove,
	CapInvoiceView, CapInvoiceManage,
	CapPaymentRecord,
	CapReportView,
	CapSettingsManage,
	CapUserManage,
}

var capabilityByName = func() map[string]Capability {
	m := make(map[string]Capability, len(AllCapabilities))
	for _, c := range AllCapabilities {
		m[string(c)] = c
	}
	return m
}()

var roleCapabilities = map[UserRole][]Capability{
	RoleAdmin: AllCapabilities,
	RoleManager: {
		CapClientView, CapClientManage,
		CapLeadView, CapLeadManage,
		CapEstimationView, CapEstimationManage, CapEstimationApprove,
		CapInvoiceView, CapInvoiceManage,
		CapPaymentRecord,
		CapReportView,
	},
	RoleSales: {
		CapClientView, CapClientManage,
		CapLeadView, CapLeadManage,
		CapEstimationView, CapEstimationManage,
		CapInvoiceView,
	},
}

// ParseCapability looks name up in the closed capability set.
func ParseCapability(name string) (Capability, error) {
	c, ok := capabilityByName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCapability, name)
	}
	return c, nil
}

// CapabilitySet is an effective set of capabilities.
type CapabilitySet map[Capability]struct{}

// EffectiveCapabilities combines a role's defaults with per-user grants.
func EffectiveCapabilities(role UserRole, grants []Capability) CapabilitySet {
	set := make(CapabilitySet)
	for _, c := range roleCapabilities[role] {
		set[c] = struct{}{}
	}
	for _, c := range grants {
		if _, known := capabilityByName[string(c)]; known {
			set[c] = struct{}{}
		}
	}
	return set
}

// Has reports whether c is in the set.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the set sorted by name.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
