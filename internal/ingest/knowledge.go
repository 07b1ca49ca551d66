package ingest

import (
	"context"

	"github.com/finops-kb/costgraph/internal/types"
)

// FocusColumnDef documents one column of the FOCUS billing standard. These
// definitions are seeded as glossary nodes so schema questions can be
// answered semantically.
type FocusColumnDef struct {
	Name        string
	Description string
	Standard    string
	Nullable    bool
}

// AllocationMethodDef documents one shared-cost allocation strategy.
type AllocationMethodDef struct {
	Name        string
	Description string
}

// FocusColumns returns the glossary of FOCUS 1.0 columns and vendor
// extensions carried by the knowledge graph.
func FocusColumns() []FocusColumnDef {
	return []FocusColumnDef{
		{"EffectiveCost", "The cost after applying all negotiated discounts, credits, and amortized commitment fees. Use EffectiveCost for analyzing actual cloud spend and cost optimization.", "FOCUS 1.0", false},
		{"BilledCost", "The amount charged to the customer as shown on the invoice. May differ from EffectiveCost due to commitment discounts and amortization.", "FOCUS 1.0", false},
		{"ListCost", "The cost calculated at the public list price without any discounts. Useful for understanding savings achieved through negotiated rates.", "FOCUS 1.0", true},
		{"ContractedCost", "The cost based on the contracted unit price times pricing quantity. May differ from BilledCost when enterprise agreements apply.", "FOCUS 1.0", true},
		{"ChargeCategory", "Classifies the nature of the charge: Usage (on-demand resources), Purchase (upfront commitments), Tax, Credit, or Adjustment.", "FOCUS 1.0", false},
		{"ChargeFrequency", "How often the charge occurs: One-Time, Recurring (monthly), or Usage-Based (pay-per-use).", "FOCUS 1.0", false},
		{"CommitmentDiscountStatus", "For commitment-based pricing, indicates if the commitment was Used (applied to usage) or Unused (wasted capacity).", "FOCUS 1.0", true},
		{"ServiceCategory", "High-level grouping of cloud services: Compute, Storage, Networking, Databases, AI/ML, etc.", "FOCUS 1.0", true},
		{"x_ServiceCode", "AWS-specific service identifier (e.g. AmazonEC2, AmazonS3, AWSLambda). Not part of FOCUS standard.", "AWS Extension", true},
		{"x_UsageType", "AWS-specific usage dimension describing the type of resource usage (e.g. APS2-DataTransfer-Regional-Bytes). Not part of FOCUS standard.", "AWS Extension", true},
		{"x_skuMeterCategory", "Azure-specific service meter category (e.g. Virtual Machines, Storage, Bandwidth). Not part of FOCUS standard.", "Azure Extension", true},
		{"x_skuDescription", "Azure-specific SKU description providing detailed information about the specific service tier or configuration.", "Azure Extension", true},
	}
}

// AllocationMethods returns the catalog of shared-cost allocation strategies.
func AllocationMethods() []AllocationMethodDef {
	return []AllocationMethodDef{
		{"Proportional", "Allocates shared costs proportionally based on each target's usage or consumption relative to the total. Most accurate for usage-driven shared costs."},
		{"EvenSplit", "Divides shared costs equally among all allocation targets. Simple and transparent but ignores actual usage differences."},
		{"Weighted", "Allocates shared costs based on custom-defined weights for each target. Flexible for business-driven cost allocation policies."},
	}
}

// SeedKnowledge merges the FOCUS glossary nodes into the graph. Safe to call
// repeatedly.
func (e *Engine) SeedKnowledge(ctx context.Context) error {
	for _, col := range FocusColumns() {
		cypher := `
		MERGE (f:FocusColumn {name: $name})
		SET f.description = $desc,
		    f.standard = $standard,
		    f.nullable = $nullable`
		_, err := e.client.Write(ctx, cypher, map[string]any{
			"name": col.Name, "desc": col.Description,
			"standard": col.Standard, "nullable": col.Nullable,
		})
		if err != nil {
			return types.WrapError(types.INGEST_SEED_FAILED, "seed column glossary", err)
		}
	}
	for _, method := range AllocationMethods() {
		cypher := `
		MERGE (a:AllocationMethod {name: $name})
		SET a.description = $desc`
		_, err := e.client.Write(ctx, cypher, map[string]any{
			"name": method.Name, "desc": method.Description,
		})
		if err != nil {
			return types.WrapError(types.INGEST_SEED_FAILED, "seed allocation methods", err)
		}
	}
	e.log.Info("seeded domain knowledge",
		"columns", len(FocusColumns()), "allocation_methods", len(AllocationMethods()))
	return nil
}
