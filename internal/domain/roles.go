package domain

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleVendor    Role = "vendor"
	RoleAffiliate Role = "affiliate"
	RoleAdmin     Role = "admin"
	// RoleSystem is held by the order subsystem calling the completion hook.
	RoleSystem Role = "system"
)

func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

type Capability string

const (
	CapApplyAffiliate   Capability = "affiliate:apply"
	CapViewOwnAffiliate Capability = "affiliate:view-own"
	CapViewAnyAffiliate Capability = "affiliate:view-any"
	CapRequestPayout    Capability = "payout:request"
	CapManageAffiliates Capability = "affiliate:manage"
	CapManageLedger     Capability = "ledger:manage"
	CapManagePayouts    Capability = "payout:manage"
	CapManageTiers      Capability = "tier:manage"
	CapManageCoupons    Capability = "coupon:manage"
	CapCompleteOrders   Capability = "order:complete"
)

var capabilities = map[Role]map[Capability]struct{}{
	RoleCustomer: set(CapApplyAffiliate, CapViewOwnAffiliate),
	RoleVendor:   set(CapApplyAffiliate, CapViewOwnAffiliate),
	RoleAffiliate: set(
		CapApplyAffiliate,
		CapViewOwnAffiliate,
		CapRequestPayout,
	),
	RoleAdmin: set(
		CapViewOwnAffiliate,
		CapViewAnyAffiliate,
		CapManageAffiliates,
		CapManageLedger,
		CapManagePayouts,
		CapManageTiers,
		CapManageCoupons,
		CapCompleteOrders,
	),
	RoleSystem: set(CapCompleteOrders),
}

func set(caps ...Capability) map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return m
}

// HasCapability is the single access check evaluated at the HTTP boundary.
func HasCapability(role Role, action Capability) bool {
	caps, ok := capabilities[role]
	if !ok {
		return false
	}
	_, ok = caps[action]
	return ok
}
