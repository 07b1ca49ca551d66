// Package ingest builds the cost knowledge graph from normalized FOCUS rows.
// Every write is an idempotent MERGE keyed on a deterministic identity, so
// replaying an export changes property values but never duplicates nodes or
// relationships.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/finops-kb/costgraph/internal/focus"
	"github.com/finops-kb/costgraph/internal/graph"
	"github.com/finops-kb/costgraph/internal/schema"
	"github.com/finops-kb/costgraph/internal/types"
)

// Engine writes cost rows and their dimension nodes into the graph.
type Engine struct {
	client graph.Client
	log    *slog.Logger
}

// NewEngine creates an ingestion engine backed by the given graph client.
func NewEngine(client graph.Client, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{client: client, log: log}
}

// IngestRow validates, normalizes, and writes one billing row. The row index
// is part of the record identity so repeated loads of the same file map onto
// the same CostRecord nodes.
func (e *Engine) IngestRow(ctx context.Context, row focus.CostRow, idx int) (string, error) {
	if err := row.Validate(); err != nil {
		return "", err
	}
	row.Normalize()

	recordID := schema.NodeID(string(row.Source), strconv.Itoa(idx),
		row.BillingAccountID, row.ChargePeriodStart, row.ResourceID)

	if err := e.writeCostRecord(ctx, row, recordID); err != nil {
		return "", err
	}

	acctID, err := e.writeBillingAccount(ctx, row)
	if err != nil {
		return "", err
	}
	subID, err := e.writeSubAccount(ctx, row)
	if err != nil {
		return "", err
	}
	periodStart, err := e.writeBillingPeriod(ctx, row)
	if err != nil {
		return "", err
	}
	svcName, err := e.writeService(ctx, row)
	if err != nil {
		return "", err
	}
	regionID, err := e.writeLocation(ctx, row)
	if err != nil {
		return "", err
	}
	resourceID, err := e.writeResource(ctx, row)
	if err != nil {
		return "", err
	}
	chargeID, err := e.writeCharge(ctx, row, recordID)
	if err != nil {
		return "", err
	}
	attrID, err := e.writeVendorAttrs(ctx, row, recordID)
	if err != nil {
		return "", err
	}
	tagIDs, err := e.writeTags(ctx, row.Tags())
	if err != nil {
		return "", err
	}
	allocID, err := e.writeCostAllocation(ctx, row)
	if err != nil {
		return "", err
	}

	if err := e.linkRecord(ctx, row, recordID, acctID, subID, periodStart,
		svcName, regionID, resourceID, chargeID, attrID, tagIDs, allocID); err != nil {
		return "", err
	}
	return recordID, nil
}

// IngestAll writes every row, continuing past individual failures. The
// returned summary carries a sample of the first failures.
func (e *Engine) IngestAll(ctx context.Context, rows []focus.CostRow) BatchSummary {
	summary := BatchSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	e.log.Info("starting ingestion", "run_id", summary.RunID, "rows", len(rows))

	for idx, row := range rows {
		recordID, err := e.IngestRow(ctx, row, idx)
		result := RowResult{RowIndex: idx, RecordID: recordID, Err: err}
		summary.record(result)
		if err != nil && summary.Failed <= errorSampleLimit {
			e.log.Warn("row ingestion failed", "run_id", summary.RunID, "row", idx, "error", err)
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	e.log.Info("ingestion complete", "run_id", summary.RunID,
		"succeeded", summary.Succeeded, "failed", summary.Failed,
		"duration", summary.Duration)
	return summary
}

func (e *Engine) writeCostRecord(ctx context.Context, row focus.CostRow, recordID string) error {
	tags := row.Tags()
	cypher := `
	MERGE (cr:CostRecord {recordId: $rid})
	SET cr.effectiveCost = $effectiveCost,
	    cr.billedCost = $billedCost,
	    cr.listCost = $listCost,
	    cr.contractedCost = $contractedCost,
	    cr.currency = $currency,
	    cr.consumedQuantity = $consumedQuantity,
	    cr.consumedUnit = $consumedUnit,
	    cr.pricingQuantity = $pricingQuantity,
	    cr.pricingUnit = $pricingUnit,
	    cr.chargePeriodStart = $chargePeriodStart,
	    cr.chargePeriodEnd = $chargePeriodEnd,
	    cr.source = $source,
	    cr.tagApplication = $tagApplication,
	    cr.tagEnvironment = $tagEnvironment,
	    cr.tagCostCentre = $tagCostCentre,
	    cr.description = $description`
	_, err := e.client.Write(ctx, cypher, map[string]any{
		"rid":               recordID,
		"effectiveCost":     row.EffectiveCost,
		"billedCost":        row.BilledCost,
		"listCost":          row.ListCost,
		"contractedCost":    row.ContractedCost,
		"currency":          row.Currency,
		"consumedQuantity":  row.ConsumedQuantity,
		"consumedUnit":      row.ConsumedUnit,
		"pricingQuantity":   row.PricingQuantity,
		"pricingUnit":       row.PricingUnit,
		"chargePeriodStart": row.ChargePeriodStart,
		"chargePeriodEnd":   row.ChargePeriodEnd,
		"source":            string(row.Source),
		"tagApplication":    firstTag(tags, "application", "Application"),
		"tagEnvironment":    firstTag(tags, "environment", "Environment"),
		"tagCostCentre":     firstTag(tags, "cost_center", "CostCentre"),
		"description":       row.Description(),
	})
	if err != nil {
		return types.WrapError(types.INGEST_ROW_FAILED, "write cost record", err)
	}
	return nil
}

func (e *Engine) writeBillingAccount(ctx context.Context, row focus.CostRow) (string, error) {
	if row.BillingAccountID == "" {
		return "", nil
	}
	name := row.BillingAccountName
	if name == "" {
		name = row.BillingAccountID
	}
	cypher := `
	MERGE (a:BillingAccount {billingAccountId: $id})
	SET a.billingAccountName = $name,
	    a.provider = $provider,
	    a.description = 'Billing account: ' + $name`
	_, err := e.client.Write(ctx, cypher, map[string]any{
		"id": row.BillingAccountID, "name": name, "provider": string(row.Source),
	})
	if err != nil {
		return "", types.WrapError(types.INGEST_ROW_FAILED, "write billing account", err)
	}
	return row.BillingAccountID, nil
}

func (e *Engine) writeSubAccount(ctx context.Context, row focus.CostRow) (string, error) {
	if row.SubAccountID == "" {
		return "", nil
	}
	name := row.SubAccountName
	if name == "" {
		name = row.SubAccountID
	}
	cypher := `
	MERGE (s:SubAccount {subAccountId: $id})
	SET s.subAccountName = $name,
	    s.description = 'Sub-account: ' + $name`
	_, err := e.client.Write(ctx, cypher, map[string]any{"id": row.SubAccountID, "name": name})
	if err != nil {
		return "", types.WrapError(types.INGEST_ROW_FAILED, "write sub-account", err)
	}
	return row.SubAccountID, nil
}

func (e *Engine) writeBillingPeriod(ctx context.Context, row focus.CostRow) (string, error) {
	if row.BillingPeriodStart == "" {
		return "", nil
	}
	cypher := `
	MERGE (p:BillingPeriod {start: $start})
	SET p.end = $end,
	    p.description = 'Billing period: ' + $start + ' to ' + $end`
	_, err := e.client.Write(ctx, cypher, map[string]any{
		"start": row.BillingPeriodStart, "end": row.BillingPeriodEnd,
	})
	if err != nil {
		return "", types.WrapError(types.INGEST_ROW_FAILED, "write billing period", err)
	}
	return row.BillingPeriodStart, nil
}

func (e *Engine) writeService(ctx context.Context, row focus.CostRow) (string, error) {
	cypher := `
	MERGE (s:Service {serviceName: $name})
	SET s.serviceCategory = $category,
	    s.provider = $provider,
	    s.description = $name + ' (' + $category + ') - ' + $provider`
	_, err := e.client.Write(ctx, cypher, map[string]any{
		"name": row.ServiceName, "category": row.ServiceCategory, "provider": string(row.Source),
	})
	if err != nil {
		return "", types.WrapError(types.INGEST_ROW_FAILED, "write service", err)
	}
	return row.ServiceName, nil
}

func (e *Engine) writeLocation(ctx context.Context, row focus.CostRow) (string, error) {
	if row.RegionID == "" {
		return "", nil
	}
	name := row.RegionName
	if name == "" {
		name = row.RegionID
	}
	cypher := `
	MERGE (l:Location {regionId: $rid})
	SET l.regionName = $rname,
	    l.availabilityZone = $az,
	    l.description = 'Region: ' + $rname`
	_, err := e.client.Write(ctx, cypher, map[string]any{
		"rid": row.RegionID, "rname": name, "az": row.AvailabilityZone,
	})
	if err != nil {
		return "", types.WrapError(types.INGEST_ROW_FAILED, "write location", err)
	}
	return row.RegionID, nil
}

func (e *Engine) writeResource(ctx context.Context, row focus.CostRow) (string, error) {
	resourceID := row.ResourceID
	if resourceID == "" {
		resourceID = schema.NodeID(row.ResourceName, row.ServiceName, string(row.Source))
	}
	name := row.ResourceName
	if name == "" {
		name = "unnamed"
	}
	rtype := row.ResourceType
	if rtype == "" {
		rtype = "unknown"
	}
	cypher := `
	MERGE (r:Resource {resourceId: $rid})
	SET r.resourceName = $rname,
	    r.resourceType = $rtype,
	    r.description = $rtype + ': ' + $rname`
	_, err := e.client.Write(ctx, cypher, map[string]any{
		"rid": resourceID, "rname": name, "rtype": rtype,
	})
	if err != nil {
		return "", types.WrapError(types.INGEST_ROW_FAILED, "write resource", err)
	}
	return resourceID, nil
}

func (e *Engine) writeCharge(ctx context.Context, row focus.CostRow, recordID string) (string, error) {
	chargeID := schema.NodeID(recordID, row.ChargeCategory, row.ChargeFrequency)
	desc := truncateRunes(row.ChargeDescription, 500)
	cypher := `
	MERGE (c:Charge {chargeId: $cid})
	SET c.chargeCategory = $category,
	    c.chargeFrequency = $frequency,
	    c.chargeDescription = $chargeDescription,
	    c.chargeClass = $chargeClass,
	    c.description = $chargeDescription`
	_, err := e.client.Write(ctx, cypher, map[string]any{
		"cid": chargeID, "category": row.ChargeCategory, "frequency": row.ChargeFrequency,
		"chargeDescription": desc, "chargeClass": row.ChargeClass,
	})
	if err != nil {
		return "", types.WrapError(types.INGEST_ROW_FAILED, "write charge", err)
	}
	return chargeID, nil
}

func (e *Engine) writeVendorAttrs(ctx context.Context, row focus.CostRow, recordID string) (string, error) {
	attrID := schema.NodeID("vendor", recordID, string(row.Source))
	var cypher string
	params := map[string]any{"aid": attrID}
	if row.Source == focus.SourceAWS {
		cypher = `
		MERGE (v:VendorAttrsAWS {attrId: $aid})
		SET v.x_ServiceCode = $serviceCode,
		    v.x_UsageType = $usageType,
		    v.x_Operation = $operation,
		    v.provider = 'aws',
		    v.description = 'AWS vendor attrs: ' + $serviceCode`
		params["serviceCode"] = row.AWSServiceCode
		params["usageType"] = row.AWSUsageType
		params["operation"] = row.AWSOperation
	} else {
		cypher = `
		MERGE (v:VendorAttrsAzure {attrId: $aid})
		SET v.x_skuMeterCategory = $meterCategory,
		    v.x_skuDescription = $skuDescription,
		    v.x_resourceGroupName = $resourceGroup,
		    v.x_costCenter = $costCenter,
		    v.x_costAllocationRuleName = $allocationRule,
		    v.provider = 'azure',
		    v.description = 'Azure vendor attrs: ' + $meterCategory`
		params["meterCategory"] = row.AzureMeterCategory
		params["skuDescription"] = row.AzureSkuDescription
		params["resourceGroup"] = row.AzureResourceGroupName
		params["costCenter"] = row.AzureCostCenter
		params["allocationRule"] = row.AzureAllocationRuleName
	}
	if _, err := e.client.Write(ctx, cypher, params); err != nil {
		return "", types.WrapError(types.INGEST_ROW_FAILED, "write vendor attrs", err)
	}
	return attrID, nil
}

func (e *Engine) writeTags(ctx context.Context, tags map[string]string) ([]string, error) {
	ids := make([]string, 0, len(tags))
	for key, value := range tags {
		tagID := schema.NodeID("tag", key, value)
		cypher := `
		MERGE (t:Tag {tagId: $tid})
		SET t.key = $key, t.value = $val,
		    t.description = $key + '=' + $val`
		_, err := e.client.Write(ctx, cypher, map[string]any{
			"tid": tagID, "key": key, "val": value,
		})
		if err != nil {
			return nil, types.WrapError(types.INGEST_ROW_FAILED, "write tag", err)
		}
		ids = append(ids, tagID)
	}
	return ids, nil
}

func (e *Engine) writeCostAllocation(ctx context.Context, row focus.CostRow) (string, error) {
	rule := row.AllocationRuleName()
	if rule == "" {
		return "", nil
	}
	allocID := schema.NodeID("alloc", rule)
	cypher := `
	MERGE (ca:CostAllocation {allocationId: $aid})
	SET ca.allocationRuleName = $rule,
	    ca.allocationMethod = $method,
	    ca.isSharedCost = $shared,
	    ca.description = 'Cost allocation: ' + $rule`
	_, err := e.client.Write(ctx, cypher, map[string]any{
		"aid": allocID, "rule": rule, "method": "Proportional", "shared": true,
	})
	if err != nil {
		return "", types.WrapError(types.INGEST_ROW_FAILED, "write cost allocation", err)
	}
	return allocID, nil
}

func (e *Engine) linkRecord(ctx context.Context, row focus.CostRow, recordID,
	acctID, subID, periodStart, svcName, regionID, resourceID, chargeID, attrID string,
	tagIDs []string, allocID string) error {

	link := func(cypher string, params map[string]any) error {
		if _, err := e.client.Write(ctx, cypher, params); err != nil {
			return types.WrapError(types.INGEST_ROW_FAILED, "write relationship", err)
		}
		return nil
	}

	if acctID != "" {
		if err := link(`
		MATCH (cr:CostRecord {recordId: $rid}), (a:BillingAccount {billingAccountId: $aid})
		MERGE (cr)-[:BELONGS_TO_BILLING_ACCOUNT]->(a)`,
			map[string]any{"rid": recordID, "aid": acctID}); err != nil {
			return err
		}
	}
	if subID != "" {
		if err := link(`
		MATCH (cr:CostRecord {recordId: $rid}), (s:SubAccount {subAccountId: $sid})
		MERGE (cr)-[:BELONGS_TO_SUBACCOUNT]->(s)`,
			map[string]any{"rid": recordID, "sid": subID}); err != nil {
			return err
		}
	}
	if periodStart != "" {
		if err := link(`
		MATCH (cr:CostRecord {recordId: $rid}), (p:BillingPeriod {start: $pstart})
		MERGE (cr)-[:IN_BILLING_PERIOD]->(p)`,
			map[string]any{"rid": recordID, "pstart": periodStart}); err != nil {
			return err
		}
	}
	if chargeID != "" {
		if err := link(`
		MATCH (cr:CostRecord {recordId: $rid}), (c:Charge {chargeId: $cid})
		MERGE (cr)-[:HAS_CHARGE]->(c)`,
			map[string]any{"rid": recordID, "cid": chargeID}); err != nil {
			return err
		}
	}
	if resourceID != "" {
		if err := link(`
		MATCH (cr:CostRecord {recordId: $rid}), (r:Resource {resourceId: $rrid})
		MERGE (cr)-[:INCURRED_BY]->(r)`,
			map[string]any{"rid": recordID, "rrid": resourceID}); err != nil {
			return err
		}
		if svcName != "" {
			if err := link(`
			MATCH (r:Resource {resourceId: $rrid}), (s:Service {serviceName: $sname})
			MERGE (r)-[:USES_SERVICE]->(s)`,
				map[string]any{"rrid": resourceID, "sname": svcName}); err != nil {
				return err
			}
		}
		if regionID != "" {
			if err := link(`
			MATCH (r:Resource {resourceId: $rrid}), (l:Location {regionId: $lid})
			MERGE (r)-[:DEPLOYED_IN]->(l)`,
				map[string]any{"rrid": resourceID, "lid": regionID}); err != nil {
				return err
			}
		}
	}
	if attrID != "" {
		label := string(schema.KindVendorAttrsAzure)
		if row.Source == focus.SourceAWS {
			label = string(schema.KindVendorAttrsAWS)
		}
		if err := link(fmt.Sprintf(`
		MATCH (cr:CostRecord {recordId: $rid}), (v:%s {attrId: $aid})
		MERGE (cr)-[:HAS_VENDOR_ATTRS]->(v)`, label),
			map[string]any{"rid": recordID, "aid": attrID}); err != nil {
			return err
		}
	}
	for _, tagID := range tagIDs {
		if err := link(`
		MATCH (cr:CostRecord {recordId: $rid}), (t:Tag {tagId: $tid})
		MERGE (cr)-[:HAS_TAG]->(t)`,
			map[string]any{"rid": recordID, "tid": tagID}); err != nil {
			return err
		}
	}
	if allocID != "" {
		if err := link(`
		MATCH (cr:CostRecord {recordId: $rid}), (ca:CostAllocation {allocationId: $aid})
		MERGE (cr)-[:ALLOCATED_VIA]->(ca)`,
			map[string]any{"rid": recordID, "aid": allocID}); err != nil {
			return err
		}
	}
	return nil
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := tags[k]; ok {
			return v
		}
	}
	return ""
}

// truncateRunes shortens s to at most n characters without splitting a
// multibyte rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
