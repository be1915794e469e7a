package feed

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mkrelic/casevault/internal/catalog"
	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/logger"
	"github.com/mkrelic/casevault/internal/metrics"
)

// Importer pulls the full limiteds list from the feed into the catalog and
// maintains one auto-generated case per rarity bucket.
type Importer struct {
	client  Client
	catalog catalog.Service
	titler  cases.Caser
}

// NewImporter creates a new Importer
func NewImporter(client Client, catalogSvc catalog.Service) *Importer {
	return &Importer{
		client:  client,
		catalog: catalogSvc,
		titler:  cases.Title(language.English),
	}
}

// ImportAllLimiteds upserts every feed item into the catalog and returns the
// number of imported items per rarity. An empty feed response imports
// nothing and is not an error.
func (im *Importer) ImportAllLimiteds(ctx context.Context) (map[domain.Rarity]int, error) {
	log := logger.FromContext(ctx)

	records := im.client.FetchAllLimiteds(ctx)
	log.Info("Importing limiteds", "count", len(records))

	counts := make(map[domain.Rarity]int)
	for _, record := range records {
		rarity := DetermineRarity(record.RAP)
		if err := im.upsertItem(ctx, record, rarity); err != nil {
			return counts, fmt.Errorf("failed to import item %s: %w", record.ItemID, err)
		}
		counts[rarity]++
		metrics.ItemsImported.WithLabelValues(string(rarity)).Inc()
	}

	for rarity, count := range counts {
		log.Info("Import bucket complete", "rarity", rarity, "count", count)
	}
	return counts, nil
}

// CreateRarityBasedCases creates or refreshes one case per non-empty rarity
// bucket of the current catalog, priced by CasePrices. Run it after
// ImportAllLimiteds so the buckets reflect the latest feed data.
func (im *Importer) CreateRarityBasedCases(ctx context.Context) error {
	log := logger.FromContext(ctx)

	items, err := im.catalog.ListItems(ctx)
	if err != nil {
		return err
	}

	buckets := make(map[domain.Rarity][]string)
	for _, item := range items {
		buckets[item.Rarity] = append(buckets[item.Rarity], item.ItemID)
	}

	for _, rarity := range domain.Rarities {
		itemIDs := buckets[rarity]
		if len(itemIDs) == 0 {
			continue
		}

		caseID := string(rarity) + "_case"
		name := im.titler.String(string(rarity)) + " Case"
		price := CasePrices[rarity]

		_, err := im.catalog.CreateCase(ctx, catalog.CreateCaseInput{
			CaseID:          caseID,
			Name:            name,
			Price:           price,
			PossibleItemIDs: itemIDs,
		})
		if errors.Is(err, domain.ErrCaseExists) {
			_, err = im.catalog.UpdateCase(ctx, caseID, domain.CaseUpdate{
				PossibleItemIDs: itemIDs,
			})
		}
		if err != nil {
			return fmt.Errorf("failed to create case %s: %w", caseID, err)
		}
		log.Info("Rarity case refreshed", "case", caseID, "items", len(itemIDs), "price", price)
	}
	return nil
}

func (im *Importer) upsertItem(ctx context.Context, record ItemRecord, rarity domain.Rarity) error {
	baseValue := record.Value
	if baseValue <= 0 {
		// The feed reports zero value for RAP-only items; fall back so the
		// catalog's positive-value invariant holds.
		baseValue = record.RAP
	}
	if baseValue <= 0 {
		logger.FromContext(ctx).Warn("Skipping feed item with no usable value", "item", record.ItemID)
		return nil
	}

	_, err := im.catalog.CreateItem(ctx, catalog.CreateItemInput{
		ItemID:    record.ItemID,
		Name:      record.Name,
		ImageRef:  record.ImageRef,
		BaseValue: baseValue,
		RAP:       record.RAP,
		Rarity:    rarity,
	})
	if errors.Is(err, domain.ErrItemExists) {
		_, err = im.catalog.UpdateItem(ctx, record.ItemID, domain.ItemUpdate{
			Name:     &record.Name,
			ImageRef: &record.ImageRef,
			RAP:      &record.RAP,
			Rarity:   &rarity,
		})
	}
	return err
}
