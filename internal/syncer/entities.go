package syncer

import (
	"context"
	"fmt"

	"github.com/craftco/lightspeed-sync/internal/lightspeed"
	"github.com/craftco/lightspeed-sync/internal/models"
	"github.com/craftco/lightspeed-sync/internal/transform"
)

// fetchResult carries one entity's fetched-and-transformed batch plus the
// highest upstream version observed, which becomes the new cursor on
// success. maxVersion stays zero for entities without version cursors.
type fetchResult struct {
	records    []models.TargetRecord
	maxVersion int64
}

// fetch dispatches on the entity type, exhaustively over the six known
// kinds. Outlets and inventory have no delta support and always fetch the
// full set; line items are derived by flattening sales payloads bounded by
// the sales-style version cursor.
func (s *Synchronizer) fetch(ctx context.Context, et models.EntityType, afterVersion int64) (fetchResult, error) {
	switch et {
	case models.EntityOutlets:
		raw, err := s.api.Outlets(ctx)
		if err != nil {
			return fetchResult{}, err
		}
		return fetchResult{records: mapRecords(raw, transform.Outlet)}, nil

	case models.EntityCustomers:
		raw, err := s.api.Customers(ctx, afterVersion)
		if err != nil {
			return fetchResult{}, err
		}
		return fetchResult{
			records:    mapRecords(raw, transform.Customer),
			maxVersion: maxVersion(raw),
		}, nil

	case models.EntityProducts:
		raw, err := s.api.Products(ctx, afterVersion)
		if err != nil {
			return fetchResult{}, err
		}
		return fetchResult{
			records:    mapRecords(raw, transform.Product),
			maxVersion: maxVersion(raw),
		}, nil

	case models.EntitySales:
		raw, err := s.api.Sales(ctx, afterVersion)
		if err != nil {
			return fetchResult{}, err
		}
		return fetchResult{
			records:    mapRecords(raw, transform.Sale),
			maxVersion: maxVersion(raw),
		}, nil

	case models.EntitySaleLineItems:
		// No independent endpoint: re-fetch sales from this entity's own
		// cursor and flatten the nested line items.
		sales, err := s.api.Sales(ctx, afterVersion)
		if err != nil {
			return fetchResult{}, err
		}
		items := transform.FlattenLineItems(sales)
		records := make([]models.TargetRecord, len(items))
		for i := range items {
			records[i] = items[i]
		}
		return fetchResult{records: records, maxVersion: maxVersion(sales)}, nil

	case models.EntityInventory:
		raw, err := s.api.Inventory(ctx)
		if err != nil {
			return fetchResult{}, err
		}
		return fetchResult{records: mapRecords(raw, transform.Inventory)}, nil

	default:
		return fetchResult{}, fmt.Errorf("unknown entity type: %q", et)
	}
}

// mapRecords applies a transform to every raw record, widening the result
// to the TargetRecord interface the writer consumes.
func mapRecords[R any, T models.TargetRecord](raw []R, fn func(R) T) []models.TargetRecord {
	if len(raw) == 0 {
		return nil
	}
	out := make([]models.TargetRecord, len(raw))
	for i, r := range raw {
		out[i] = fn(r)
	}
	return out
}

// maxVersion returns the highest upstream version in a batch, 0 when empty.
func maxVersion[T interface{ RecordVersion() int64 }](records []T) int64 {
	var maxV int64
	for _, r := range records {
		if v := r.RecordVersion(); v > maxV {
			maxV = v
		}
	}
	return maxV
}

var _ SourceClient = (*lightspeed.Client)(nil)
