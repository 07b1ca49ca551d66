package schema

// NodeKind identifies one of the closed set of node kinds in the cost graph.
// Each kind is bound at compile time to its label, natural-key property, and
// (for embeddable kinds) a vector index name, so adding a kind is a
// compile-time extension rather than a string-matched branch.
type NodeKind string

const (
	KindCostRecord       NodeKind = "CostRecord"
	KindBillingAccount   NodeKind = "BillingAccount"
	KindSubAccount       NodeKind = "SubAccount"
	KindBillingPeriod    NodeKind = "BillingPeriod"
	KindService          NodeKind = "Service"
	KindResource         NodeKind = "Resource"
	KindLocation         NodeKind = "Location"
	KindCharge           NodeKind = "Charge"
	KindVendorAttrsAWS   NodeKind = "VendorAttrsAWS"
	KindVendorAttrsAzure NodeKind = "VendorAttrsAzure"
	KindTag              NodeKind = "Tag"
	KindCostAllocation   NodeKind = "CostAllocation"
	KindFocusColumn      NodeKind = "FocusColumn"
	KindAllocationMethod NodeKind = "AllocationMethod"
)

// String returns the node label for this kind.
func (k NodeKind) String() string {
	return string(k)
}

// KeyProperty returns the property carrying this kind's unique key.
func (k NodeKind) KeyProperty() string {
	switch k {
	case KindCostRecord:
		return "recordId"
	case KindBillingAccount:
		return "billingAccountId"
	case KindSubAccount:
		return "subAccountId"
	case KindBillingPeriod:
		return "start"
	case KindService:
		return "serviceName"
	case KindResource:
		return "resourceId"
	case KindLocation:
		return "regionId"
	case KindCharge:
		return "chargeId"
	case KindVendorAttrsAWS, KindVendorAttrsAzure:
		return "attrId"
	case KindTag:
		return "tagId"
	case KindCostAllocation:
		return "allocationId"
	case KindFocusColumn, KindAllocationMethod:
		return "name"
	}
	return ""
}

// IsValid checks if the NodeKind is one of the declared kinds.
func (k NodeKind) IsValid() bool {
	return k.KeyProperty() != ""
}

// AllKinds lists every declared node kind.
func AllKinds() []NodeKind {
	return []NodeKind{
		KindCostRecord, KindBillingAccount, KindSubAccount, KindBillingPeriod,
		KindService, KindResource, KindLocation, KindCharge,
		KindVendorAttrsAWS, KindVendorAttrsAzure, KindTag, KindCostAllocation,
		KindFocusColumn, KindAllocationMethod,
	}
}

// RelationType identifies a typed, directed relationship in the cost graph.
type RelationType string

const (
	RelBelongsToBillingAccount RelationType = "BELONGS_TO_BILLING_ACCOUNT"
	RelBelongsToSubAccount     RelationType = "BELONGS_TO_SUBACCOUNT"
	RelInBillingPeriod         RelationType = "IN_BILLING_PERIOD"
	RelHasCharge               RelationType = "HAS_CHARGE"
	RelIncurredBy              RelationType = "INCURRED_BY"
	RelUsesService             RelationType = "USES_SERVICE"
	RelDeployedIn              RelationType = "DEPLOYED_IN"
	RelHasVendorAttrs          RelationType = "HAS_VENDOR_ATTRS"
	RelHasTag                  RelationType = "HAS_TAG"
	RelAllocatedVia            RelationType = "ALLOCATED_VIA"
)

// String returns the relationship type name.
func (r RelationType) String() string {
	return string(r)
}

// EmbeddingProperty is the node property holding the embedding vector.
const EmbeddingProperty = "embedding"

// EmbedTarget pairs a node kind with the text property to embed.
type EmbedTarget struct {
	Kind     NodeKind
	TextProp string
}

// VectorIndexName returns the name of the vector index for this target's kind.
func (t EmbedTarget) VectorIndexName() string {
	return vectorIndexName(t.Kind)
}

// EmbedTargets lists every (kind, text property) pair that carries an
// embedding. All descriptive text flows through the synthesized description
// property written at construction time.
func EmbedTargets() []EmbedTarget {
	return []EmbedTarget{
		{KindCostRecord, "description"},
		{KindService, "description"},
		{KindCharge, "description"},
		{KindLocation, "description"},
		{KindBillingAccount, "description"},
		{KindSubAccount, "description"},
		{KindResource, "description"},
		{KindVendorAttrsAWS, "description"},
		{KindVendorAttrsAzure, "description"},
		{KindCostAllocation, "description"},
		{KindTag, "description"},
		{KindFocusColumn, "description"},
		{KindAllocationMethod, "description"},
	}
}
