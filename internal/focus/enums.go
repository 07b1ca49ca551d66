package focus

// ChargeCategory enumerates the FOCUS 1.0 ChargeCategory values.
type ChargeCategory string

const (
	ChargeCategoryUsage      ChargeCategory = "Usage"
	ChargeCategoryPurchase   ChargeCategory = "Purchase"
	ChargeCategoryTax        ChargeCategory = "Tax"
	ChargeCategoryCredit     ChargeCategory = "Credit"
	ChargeCategoryAdjustment ChargeCategory = "Adjustment"
)

// ChargeFrequency enumerates the FOCUS 1.0 ChargeFrequency values.
type ChargeFrequency string

const (
	ChargeFrequencyOneTime    ChargeFrequency = "One-Time"
	ChargeFrequencyRecurring  ChargeFrequency = "Recurring"
	ChargeFrequencyUsageBased ChargeFrequency = "Usage-Based"
)
