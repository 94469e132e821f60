package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/domain/entity"
)

// ProductIndex mirrors the product catalog into Elasticsearch. All methods
// are no-ops when the client is nil so the app runs without a cluster; the
// catalog service falls back to SQL search in that case.
type ProductIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewProductIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *ProductIndex {
	return &ProductIndex{ES: es, Index: index, Logger: logger}
}

func (pi *ProductIndex) Enabled() bool {
	return pi != nil && pi.ES != nil && pi.Index != ""
}

// Upsert indexes the latest product document. Failures are logged and
// swallowed; search lags behind rather than failing the write.
func (pi *ProductIndex) Upsert(ctx context.Context, p *entity.Product) {
	if !pi.Enabled() {
		return
	}
	doc := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"brand":       p.Brand,
		"tags":        p.Tags,
		"price":       p.Price,
		"rating":      p.AverageRating,
		"is_active":   p.IsActive,
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: pi.Index, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, pi.ES)
	if err != nil {
		pi.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		pi.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
}

func (pi *ProductIndex) Remove(ctx context.Context, productID string) {
	if !pi.Enabled() {
		return
	}
	req := esapi.DeleteRequest{Index: pi.Index, DocumentID: productID}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, pi.ES)
	if err != nil {
		pi.Logger.WithError(err).WithField("product_id", productID).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// SearchIDs runs a multi_match query over the catalog fields and returns
// matching product ids in relevance order.
func (pi *ProductIndex) SearchIDs(ctx context.Context, q string, size int) ([]string, error) {
	if !pi.Enabled() {
		return nil, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"name^3", "brand^2", "tags^2", "description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"is_active": true},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := pi.ES.Search(
		pi.ES.Search.WithContext(c),
		pi.ES.Search.WithIndex(pi.Index),
		pi.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
