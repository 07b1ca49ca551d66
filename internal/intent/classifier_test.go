package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntents(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name  string
		query string
		want  []Intent
	}{
		{
			name:  "cost analysis",
			query: "Show the total spend this month",
			want:  []Intent{IntentCostAnalysis},
		},
		{
			name:  "service comparison",
			query: "Compare EC2 versus Virtual Machines",
			want:  []Intent{IntentServiceComparison},
		},
		{
			name:  "commitment analysis",
			query: "How much of our reservation went unused?",
			want:  []Intent{IntentCommitmentAnalysis},
		},
		{
			name:  "optimization",
			query: "Recommend ways to rightsize our fleet",
			want:  []Intent{IntentOptimization},
		},
		{
			name:  "schema query",
			query: "What is the definition of a FOCUS column?",
			want:  []Intent{IntentSchemaQuery},
		},
		{
			name:  "tag query",
			query: "Group by environment tag",
			want:  []Intent{IntentTagQuery},
		},
		{
			name:  "allocation query",
			query: "How are shared expenses split across teams?",
			want:  []Intent{IntentAllocationQuery},
		},
		{
			name:  "no match falls back to general",
			query: "hello there",
			want:  []Intent{IntentGeneral},
		},
		{
			name:  "multiple intents",
			query: "Compare storage costs between AWS and Azure",
			want:  []Intent{IntentCostAnalysis, IntentServiceComparison},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.query)
			assert.Equal(t, tt.want, got.Intents)
		})
	}
}

func TestClassifyEntities(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name  string
		query string
		want  map[Entity]bool
	}{
		{
			name:  "aws via service name",
			query: "show EC2 charges",
			want:  map[Entity]bool{EntityAWS: true, EntityCompute: true},
		},
		{
			name:  "azure",
			query: "Blob usage on Microsoft cloud",
			want:  map[Entity]bool{EntityAzure: true, EntityStorage: true},
		},
		{
			name:  "production shorthand",
			query: "what does prod cost",
			want:  map[Entity]bool{EntityProduction: true},
		},
		{
			name:  "purchase",
			query: "upfront reservation purchases",
			want:  map[Entity]bool{EntityChargePurchase: true},
		},
		{
			name:  "no entities",
			query: "hello there",
			want:  map[Entity]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.query)
			assert.Equal(t, tt.want, got.Entities)
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier()
	query := "Compare storage costs between AWS and Azure"
	first := c.Classify(query)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(query))
	}
}

func TestClassificationHelpers(t *testing.T) {
	c := Classification{
		Intents:  []Intent{IntentCostAnalysis},
		Entities: map[Entity]bool{EntityAWS: true},
	}
	assert.True(t, c.HasIntent(IntentCostAnalysis))
	assert.False(t, c.HasIntent(IntentTagQuery))
	assert.True(t, c.HasEntity(EntityAWS))
	assert.False(t, c.HasEntity(EntityAzure))
}
