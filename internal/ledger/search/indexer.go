package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/model"
	"github.com/sampleloop/inventory-service/pkg/search"
)

// Indexer mirrors the append-only transaction ledger into elasticsearch for
// free-text audit search. Indexing is best effort: the database row is the
// system of record and a failed index never fails the mutation.
type Indexer struct {
	client *search.Client
	index  string
	logger *zap.Logger
}

func NewIndexer(client *search.Client, index string, logger *zap.Logger) *Indexer {
	return &Indexer{client: client, index: index, logger: logger}
}

// Available reports whether search was configured at startup.
func (i *Indexer) Available() bool {
	return i != nil && i.client != nil && i.client.ES != nil
}

func (i *Indexer) Index(txn *model.InventoryTransaction) {
	if !i.Available() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	body, err := json.Marshal(txn)
	if err != nil {
		i.logger.Error("failed to marshal transaction for indexing", zap.Error(err))
		return
	}

	res, err := i.client.ES.Index(
		i.index,
		bytes.NewReader(body),
		i.client.ES.Index.WithDocumentID(txn.ID),
		i.client.ES.Index.WithContext(ctx),
	)
	if err != nil {
		i.logger.Warn("failed to index inventory transaction",
			zap.String("txn_id", txn.ID), zap.Error(err))
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		i.logger.Warn("elasticsearch rejected transaction document",
			zap.String("txn_id", txn.ID), zap.String("status", res.Status()))
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source model.InventoryTransaction `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a store-scoped free-text query over indexed transactions.
func (i *Indexer) Search(ctx context.Context, storeID, query string, size int) ([]model.InventoryTransaction, error) {
	if !i.Available() {
		return nil, fmt.Errorf("search client not configured")
	}
	if size <= 0 {
		size = 20
	}

	q := map[string]interface{}{
		"size": size,
		"sort": []map[string]interface{}{{"createdAt": map[string]string{"order": "desc"}}},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"storeId.keyword": storeID}},
				},
				"must": []map[string]interface{}{
					{"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"productSku", "type", "notes", "customerId"},
					}},
				},
			},
		},
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}

	res, err := i.client.ES.Search(
		i.client.ES.Search.WithContext(ctx),
		i.client.ES.Search.WithIndex(i.index),
		i.client.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	txns := make([]model.InventoryTransaction, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		txns = append(txns, hit.Source)
	}
	return txns, nil
}
