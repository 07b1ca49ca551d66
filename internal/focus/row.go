// Package focus models normalized FOCUS 1.0 billing rows as they enter the
// graph construction engine. Rows from provider-specific exports are mapped
// to one shared column naming convention upstream; this package validates the
// result, applies spec defaults, and decodes the embedded tag payload.
package focus

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/finops-kb/costgraph/internal/types"
)

// Source identifies the billing data provider a row came from.
type Source string

const (
	SourceAWS   Source = "aws"
	SourceAzure Source = "azure"
)

// IsValid checks if the Source is a known provider.
func (s Source) IsValid() bool {
	return s == SourceAWS || s == SourceAzure
}

// Provider returns the display name for the source.
func (s Source) Provider() string {
	switch s {
	case SourceAWS:
		return "Amazon Web Services"
	case SourceAzure:
		return "Microsoft Azure"
	}
	return "unknown"
}

// CostRow is one normalized billing line. Required fields are enforced by
// Validate; optional fields default through Normalize rather than deep inside
// construction logic.
type CostRow struct {
	Source Source `validate:"required,oneof=aws azure"`

	BillingAccountID   string
	BillingAccountName string
	SubAccountID       string
	SubAccountName     string

	BillingPeriodStart string
	BillingPeriodEnd   string
	ChargePeriodStart  string
	ChargePeriodEnd    string

	ServiceName     string
	ServiceCategory string

	ResourceID   string
	ResourceName string
	ResourceType string

	RegionID         string
	RegionName       string
	AvailabilityZone string

	ChargeCategory    string
	ChargeFrequency   string
	ChargeDescription string
	ChargeClass       string

	EffectiveCost  float64 `validate:"gte=0"`
	BilledCost     float64 `validate:"gte=0"`
	ListCost       float64 `validate:"gte=0"`
	ContractedCost float64 `validate:"gte=0"`
	Currency       string

	ConsumedQuantity float64
	ConsumedUnit     string
	PricingQuantity  float64
	PricingUnit      string

	// TagsKV is the string-encoded key-value tag payload from the export.
	TagsKV string

	// Vendor-specific extension fields. Which group is meaningful depends on
	// Source; the other group is ignored.
	AWSServiceCode    string
	AWSUsageType      string
	AWSOperation      string
	AWSCostCategories string

	AzureMeterCategory      string
	AzureSkuDescription     string
	AzureResourceGroupName  string
	AzureCostCenter         string
	AzureAllocationRuleName string
}

var rowValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields and cost invariants. Every cost figure must
// be non-negative and Source must name a known provider.
func (r *CostRow) Validate() error {
	if err := rowValidator.Struct(r); err != nil {
		return types.WrapError(types.INGEST_ROW_INVALID, "row validation failed", err)
	}
	return nil
}

// Normalize applies FOCUS defaults for optional fields: currency falls back
// to USD, charge classification to Usage/Usage-Based, and the service name to
// a sentinel so every row can anchor a Service node.
func (r *CostRow) Normalize() {
	if r.Currency == "" {
		r.Currency = "USD"
	}
	if r.ServiceName == "" {
		r.ServiceName = "Unknown Service"
	}
	if r.ServiceCategory == "" {
		r.ServiceCategory = "Other"
	}
	if r.ChargeCategory == "" {
		r.ChargeCategory = string(ChargeCategoryUsage)
	}
	if r.ChargeFrequency == "" {
		r.ChargeFrequency = string(ChargeFrequencyUsageBased)
	}
}

// Tags decodes the embedded tag payload. Malformed or empty payloads yield an
// empty map, never an error.
func (r *CostRow) Tags() map[string]string {
	return ParseTags(r.TagsKV)
}

// Description synthesizes the human-readable text that is embedded for
// semantic retrieval of the fact node.
func (r *CostRow) Description() string {
	return fmt.Sprintf("%s %s %s $%.4f",
		strings.ToUpper(string(r.Source)), r.ServiceName, r.ChargeCategory, r.EffectiveCost)
}

// AllocationRuleName returns the cost-allocation rule attached to the row,
// if any: the Azure allocation rule, or the AWS cost-category assignment
// when the Azure field is absent.
func (r *CostRow) AllocationRuleName() string {
	if r.AzureAllocationRuleName != "" {
		return r.AzureAllocationRuleName
	}
	return r.AWSCostCategories
}
