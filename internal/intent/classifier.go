// Package intent classifies natural-language billing questions into coarse
// intents and entity flags. Classification is a cheap regex pass; the result
// gates which graph query families the retrieval layer runs.
package intent

import "regexp"

// Intent names one recognized question category.
type Intent string

const (
	IntentCostAnalysis       Intent = "cost_analysis"
	IntentServiceComparison  Intent = "service_comparison"
	IntentCommitmentAnalysis Intent = "commitment_analysis"
	IntentOptimization       Intent = "optimization"
	IntentSchemaQuery        Intent = "schema_query"
	IntentTagQuery           Intent = "tag_query"
	IntentAllocationQuery    Intent = "allocation_query"
	IntentGeneral            Intent = "general"
)

// Entity names one recognized subject flag.
type Entity string

const (
	EntityAWS            Entity = "aws"
	EntityAzure          Entity = "azure"
	EntityCompute        Entity = "compute"
	EntityStorage        Entity = "storage"
	EntityProduction     Entity = "production"
	EntityChargePurchase Entity = "charge_purchase"
)

// Classification is the result of analyzing one query.
type Classification struct {
	Intents  []Intent
	Entities map[Entity]bool
}

// HasIntent reports whether the classification contains the given intent.
func (c Classification) HasIntent(i Intent) bool {
	for _, x := range c.Intents {
		if x == i {
			return true
		}
	}
	return false
}

// HasEntity reports whether the entity flag is set.
func (c Classification) HasEntity(e Entity) bool {
	return c.Entities[e]
}

type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

type entityRule struct {
	entity  Entity
	pattern *regexp.Regexp
}

// Classifier recognizes intents and entities via precompiled patterns.
type Classifier struct {
	intents  []intentRule
	entities []entityRule
}

// NewClassifier compiles the recognition tables once.
func NewClassifier() *Classifier {
	compile := func(patterns ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(patterns))
		for i, p := range patterns {
			out[i] = regexp.MustCompile(`(?i)` + p)
		}
		return out
	}

	return &Classifier{
		intents: []intentRule{
			{IntentCostAnalysis, compile(`cost`, `spend`, `expensive`, `price`, `billing`, `billed`, `effective`, `total`)},
			{IntentServiceComparison, compile(`compare`, `vs`, `versus`, `difference`, `equivalent`, `similar`)},
			{IntentCommitmentAnalysis, compile(`commitment`, `reservation`, `savings plan`, `utilization`, `unused`, `reserved`)},
			{IntentOptimization, compile(`optimiz`, `reduc`, `sav`, `rightsiz`, `recommend`)},
			{IntentSchemaQuery, compile(`focus column`, `standard`, `vendor`, `x_`, `spec`, `definition`, `what is`, `explain`)},
			{IntentTagQuery, compile(`tag`, `application`, `environment`, `production`)},
			{IntentAllocationQuery, compile(`alloc`, `shared cost`, `proportion`, `split`)},
		},
		entities: []entityRule{
			{EntityAWS, regexp.MustCompile(`(?i)\bAWS\b|\bAmazon\b|\bEC2\b|\bS3\b|\bLambda\b|\bRDS\b`)},
			{EntityAzure, regexp.MustCompile(`(?i)\bAzure\b|\bMicrosoft\b|\bBlob\b|\bVirtual Machine\b`)},
			{EntityCompute, regexp.MustCompile(`(?i)\bEC2\b|\bVirtual Machine\b|\bcompute\b|\binstance\b`)},
			{EntityStorage, regexp.MustCompile(`(?i)\bS3\b|\bBlob\b|\bstorage\b|\bEBS\b`)},
			{EntityProduction, regexp.MustCompile(`(?i)\bproduction\b|\bprod\b`)},
			{EntityChargePurchase, regexp.MustCompile(`(?i)\bpurchase\b|\bcommitment\b|\breservation\b`)},
		},
	}
}

// Classify analyzes a query. A query matching no intent pattern falls back
// to the general intent; entities are independent boolean flags.
func (c *Classifier) Classify(query string) Classification {
	var intents []Intent
	for _, rule := range c.intents {
		for _, p := range rule.patterns {
			if p.MatchString(query) {
				intents = append(intents, rule.intent)
				break
			}
		}
	}
	if len(intents) == 0 {
		intents = []Intent{IntentGeneral}
	}

	entities := make(map[Entity]bool)
	for _, rule := range c.entities {
		if rule.pattern.MatchString(query) {
			entities[rule.entity] = true
		}
	}
	return Classification{Intents: intents, Entities: entities}
}
