package focus

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/finops-kb/costgraph/internal/types"
)

// LoadCSV reads a FOCUS 1.0 export file and returns one CostRow per data
// line, tagged with the given source. Column order is taken from the header
// row; unknown columns are ignored so vendor exports can carry extra fields.
func LoadCSV(path string, source Source) ([]CostRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.WrapError(types.INGEST_LOAD_FAILED, "open export file", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f, source)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadCSV parses FOCUS rows from an already-open reader.
func ReadCSV(r io.Reader, source Source) ([]CostRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, types.WrapError(types.INGEST_LOAD_FAILED, "read export header", err)
	}
	// Azure exports carry lowercase headers where AWS uses camel case, so
	// lookups are case-insensitive.
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var rows []CostRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, types.WrapError(types.INGEST_LOAD_FAILED, "read export row", err)
		}
		rows = append(rows, rowFromRecord(record, idx, source))
	}
	return rows, nil
}

func rowFromRecord(record []string, idx map[string]int, source Source) CostRow {
	col := func(name string) string {
		i, ok := idx[strings.ToLower(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	num := func(name string) float64 {
		v, err := strconv.ParseFloat(col(name), 64)
		if err != nil {
			return 0
		}
		return v
	}

	return CostRow{
		Source: source,

		BillingAccountID:   col("BillingAccountId"),
		BillingAccountName: col("BillingAccountName"),
		SubAccountID:       col("SubAccountId"),
		SubAccountName:     col("SubAccountName"),

		BillingPeriodStart: col("BillingPeriodStart"),
		BillingPeriodEnd:   col("BillingPeriodEnd"),
		ChargePeriodStart:  col("ChargePeriodStart"),
		ChargePeriodEnd:    col("ChargePeriodEnd"),

		ServiceName:     col("ServiceName"),
		ServiceCategory: col("ServiceCategory"),

		ResourceID:   col("ResourceId"),
		ResourceName: col("ResourceName"),
		ResourceType: col("ResourceType"),

		RegionID:         col("RegionId"),
		RegionName:       col("RegionName"),
		AvailabilityZone: col("AvailabilityZone"),

		ChargeCategory:    col("ChargeCategory"),
		ChargeFrequency:   col("ChargeFrequency"),
		ChargeDescription: col("ChargeDescription"),
		ChargeClass:       col("ChargeClass"),

		EffectiveCost:  num("EffectiveCost"),
		BilledCost:     num("BilledCost"),
		ListCost:       num("ListCost"),
		ContractedCost: num("ContractedCost"),
		Currency:       col("BillingCurrency"),

		ConsumedQuantity: num("ConsumedQuantity"),
		ConsumedUnit:     col("ConsumedUnit"),
		PricingQuantity:  num("PricingQuantity"),
		PricingUnit:      col("PricingUnit"),

		TagsKV: col("Tags"),

		AWSServiceCode:    col("x_ServiceCode"),
		AWSUsageType:      col("x_UsageType"),
		AWSOperation:      col("x_Operation"),
		AWSCostCategories: col("x_CostCategories"),

		AzureMeterCategory:      col("x_skuMeterCategory"),
		AzureSkuDescription:     col("x_skuDescription"),
		AzureResourceGroupName:  col("x_resourceGroupName"),
		AzureCostCenter:         col("x_costCenter"),
		AzureAllocationRuleName: col("x_costAllocationRuleName"),
	}
}
