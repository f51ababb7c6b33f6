// Package chart models the bucket catalog — the Profit First allocation
// accounts a client's activity is sorted into — together with the label
// heuristics that map free-text statement rows onto catalog entries.
package chart

// Source distinguishes how a bucket came to exist.
type Source int

const (
	// SourceCore buckets belong to the fixed canonical layout.
	SourceCore Source = iota
	// SourceDerived buckets are computed from other buckets at read time
	// and are never stored.
	SourceDerived
	// SourceCustom buckets are user-created.
	SourceCustom
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceCore:
		return "core"
	case SourceDerived:
		return "derived"
	case SourceCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Direction classifies money movement for a statement row or projected line.
type Direction int

const (
	// DirectionAny matches either flow direction.
	DirectionAny Direction = iota
	DirectionInflow
	DirectionOutflow
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionInflow:
		return "inflow"
	case DirectionOutflow:
		return "outflow"
	default:
		return "any"
	}
}

// MaxCustomBuckets caps the number of user-created buckets per client.
const MaxCustomBuckets = 15

// Bucket is a named allocation category holding a running balance.
type Bucket struct {
	// Slug is the canonical identifier: lowercase ASCII, underscore
	// separated, unique within a client.
	Slug string

	// Name is the display label.
	Name string

	// Color is the display color, as a hex string.
	Color string

	// SortOrder positions the bucket in catalog listings.
	SortOrder int

	// Source records whether the bucket is core, derived or custom.
	Source Source

	// Configured marks buckets the client has activated for allocation.
	Configured bool
}

// Core bucket slugs from the canonical layout.
const (
	SlugIncome               = "income"
	SlugMaterials            = "materials"
	SlugDirectLabor          = "direct_labor"
	SlugDirectSubcontractors = "direct_subcontractors"
	SlugCOGS                 = "cogs"
	SlugOperatingExpenses    = "operating_expenses"
	SlugOwnersPay            = "owners_pay"
	SlugProfit               = "profit"
	SlugTax                  = "tax"
	SlugVault                = "vault"
	SlugLoanDebtService      = "loan_debt_service"
)

// Derived bucket slugs. Values for these are always computed live from
// other buckets, never persisted.
const (
	SlugRealRevenue      = "real_revenue"
	SlugDirectCostsTotal = "direct_costs_total"
)

// CoreLayout returns the fixed canonical bucket layout in display order.
func CoreLayout() []Bucket {
	return []Bucket{
		{Slug: SlugIncome, Name: "Income", Color: "#2E86AB", SortOrder: 0, Source: SourceCore},
		{Slug: SlugMaterials, Name: "Materials", Color: "#A23B72", SortOrder: 1, Source: SourceCore},
		{Slug: SlugDirectLabor, Name: "Direct Labor", Color: "#F18F01", SortOrder: 2, Source: SourceCore},
		{Slug: SlugDirectSubcontractors, Name: "Direct Subcontractors", Color: "#C73E1D", SortOrder: 3, Source: SourceCore},
		{Slug: SlugCOGS, Name: "Cost of Goods Sold", Color: "#8E5572", SortOrder: 4, Source: SourceCore},
		{Slug: SlugOperatingExpenses, Name: "Operating Expenses", Color: "#3B1F2B", SortOrder: 5, Source: SourceCore},
		{Slug: SlugOwnersPay, Name: "Owner's Pay", Color: "#44AF69", SortOrder: 6, Source: SourceCore},
		{Slug: SlugProfit, Name: "Profit", Color: "#FCAB10", SortOrder: 7, Source: SourceCore},
		{Slug: SlugTax, Name: "Tax", Color: "#2B9EB3", SortOrder: 8, Source: SourceCore},
		{Slug: SlugVault, Name: "Vault", Color: "#DBD5B5", SortOrder: 9, Source: SourceCore},
		{Slug: SlugLoanDebtService, Name: "Loan / Debt Service", Color: "#6B7280", SortOrder: 10, Source: SourceCore},
	}
}

// DirectCostSlugs lists the sub-buckets summed into the derived
// direct-costs total.
func DirectCostSlugs() []string {
	return []string{SlugMaterials, SlugDirectLabor, SlugDirectSubcontractors, SlugCOGS}
}

// CanAddCustom reports whether the catalog has room for another custom bucket.
func CanAddCustom(catalog []Bucket) bool {
	custom := 0
	for _, b := range catalog {
		if b.Source == SourceCustom {
			custom++
		}
	}
	return custom < MaxCustomBuckets
}
