package focus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const awsCSV = `BillingAccountId,BillingAccountName,ChargePeriodStart,ServiceName,ServiceCategory,EffectiveCost,BilledCost,BillingCurrency,Tags,x_ServiceCode
123456789012,prod-payer,2024-06-01,Amazon EC2,Compute,10.5,11.0,USD,"{""environment"": ""production""}",AmazonEC2
123456789012,prod-payer,2024-06-01,Amazon S3,Storage,2.25,2.25,USD,{},AmazonS3
`

func TestReadCSV(t *testing.T) {
	t.Run("maps FOCUS columns", func(t *testing.T) {
		rows, err := ReadCSV(strings.NewReader(awsCSV), SourceAWS)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		first := rows[0]
		assert.Equal(t, SourceAWS, first.Source)
		assert.Equal(t, "123456789012", first.BillingAccountID)
		assert.Equal(t, "2024-06-01", first.ChargePeriodStart)
		assert.Equal(t, "Amazon EC2", first.ServiceName)
		assert.Equal(t, "Compute", first.ServiceCategory)
		assert.InDelta(t, 10.5, first.EffectiveCost, 1e-9)
		assert.InDelta(t, 11.0, first.BilledCost, 1e-9)
		assert.Equal(t, "USD", first.Currency)
		assert.Equal(t, "AmazonEC2", first.AWSServiceCode)
		assert.Equal(t, map[string]string{"environment": "production"}, first.Tags())

		assert.Empty(t, rows[1].Tags())
	})

	t.Run("azure lowercase headers map case-insensitively", func(t *testing.T) {
		csv := "billingaccountid,servicename,servicecategory,effectivecost,billingcurrency,x_skumetercategory,x_skudescription,x_resourcegroupname,x_costcenter,x_costallocationrulename\n" +
			"azure-sub-1,Blob Storage,Storage,0.75,USD,Storage,Hot LRS Block Blob,rg-data,CC-100,shared-infra\n"
		rows, err := ReadCSV(strings.NewReader(csv), SourceAzure)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		row := rows[0]
		assert.Equal(t, "azure-sub-1", row.BillingAccountID)
		assert.Equal(t, "Blob Storage", row.ServiceName)
		assert.Equal(t, "Storage", row.ServiceCategory)
		assert.InDelta(t, 0.75, row.EffectiveCost, 1e-9)
		assert.Equal(t, "USD", row.Currency)
		assert.Equal(t, "Storage", row.AzureMeterCategory)
		assert.Equal(t, "Hot LRS Block Blob", row.AzureSkuDescription)
		assert.Equal(t, "rg-data", row.AzureResourceGroupName)
		assert.Equal(t, "CC-100", row.AzureCostCenter)
		assert.Equal(t, "shared-infra", row.AzureAllocationRuleName)
	})

	t.Run("aws cost categories column mapped", func(t *testing.T) {
		csv := "ServiceName,EffectiveCost,x_CostCategories\nAmazon EC2,1.0,team-platform\n"
		rows, err := ReadCSV(strings.NewReader(csv), SourceAWS)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "team-platform", rows[0].AWSCostCategories)
	})

	t.Run("unknown columns ignored", func(t *testing.T) {
		csv := "ServiceName,SomethingCustom,EffectiveCost\nEC2,whatever,1.0\n"
		rows, err := ReadCSV(strings.NewReader(csv), SourceAWS)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "EC2", rows[0].ServiceName)
		assert.InDelta(t, 1.0, rows[0].EffectiveCost, 1e-9)
	})

	t.Run("unparseable numbers default to zero", func(t *testing.T) {
		csv := "ServiceName,EffectiveCost\nEC2,not-a-number\n"
		rows, err := ReadCSV(strings.NewReader(csv), SourceAWS)
		require.NoError(t, err)
		assert.Zero(t, rows[0].EffectiveCost)
	})

	t.Run("missing header is an error", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""), SourceAWS)
		assert.Error(t, err)
	})
}
