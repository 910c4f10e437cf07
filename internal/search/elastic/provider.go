// Package elastic implements the remote search provider on top of an
// Elasticsearch or OpenSearch index.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/rpggio/sommelier/internal/domain/wine"
	"github.com/rpggio/sommelier/internal/search"
)

// Config holds connection details for the search cluster.
type Config struct {
	Addresses []string
	Index     string
	Username  string
	Password  string
}

// Provider queries an index of wine documents and returns matching ids.
type Provider struct {
	client *elasticsearch.Client
	index  string
}

// New creates a provider.
func New(cfg Config) (*Provider, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("elastic: index is required")
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: create client: %w", err)
	}
	return &Provider{client: client, index: cfg.Index}, nil
}

// Search implements search.Provider.
func (p *Provider) Search(ctx context.Context, req search.ProviderRequest) ([]wine.ID, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(BuildQuery(req)); err != nil {
		return nil, fmt.Errorf("elastic: encode query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{p.index},
		Body:  &buf,
	}.Do(ctx, p.client)
	if err != nil {
		return nil, fmt.Errorf("elastic: search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elastic: search: %s", res.Status())
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("elastic: decode response: %w", err)
	}

	ids := make([]wine.ID, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		id := hit.Source.ID
		if id == "" {
			id = wine.ID(hit.ID)
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string  `json:"_id"`
			Score  float64 `json:"_score"`
			Source struct {
				ID wine.ID `json:"id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// BuildQuery renders the request as a bool query: a BM25 multi_match on the
// term (name boosted) plus filter clauses for the structured constraints.
func BuildQuery(req search.ProviderRequest) map[string]any {
	var must []map[string]any
	if term := strings.TrimSpace(req.Term); term != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  term,
				"fields": []string{"name^3", "winery", "type", "region", "country", "description"},
			},
		})
	}

	f := req.Filters
	var filter []map[string]any
	matchField := func(field, value string) {
		if strings.TrimSpace(value) != "" {
			filter = append(filter, map[string]any{
				"match": map[string]any{field: map[string]any{"query": value, "operator": "and"}},
			})
		}
	}
	matchField("type", f.Type)
	matchField("region", f.Region)
	matchField("winery", f.Winery)
	matchField("pairings", f.FoodPairing)
	matchField("occasions", f.Occasion)

	if f.MinPrice != nil || f.MaxPrice != nil {
		bounds := map[string]any{}
		if f.MinPrice != nil {
			bounds["gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			bounds["lte"] = *f.MaxPrice
		}
		filter = append(filter, map[string]any{"range": map[string]any{"price": bounds}})
	}
	if f.MinRating != nil {
		filter = append(filter, map[string]any{"range": map[string]any{"rating": map[string]any{"gte": *f.MinRating}}})
	}
	if f.Vintage != nil {
		filter = append(filter, map[string]any{"term": map[string]any{"vintage": *f.Vintage}})
	}

	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	} else {
		boolQuery["must"] = []map[string]any{{"match_all": map[string]any{}}}
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	size := req.Limit
	if size <= 0 {
		size = search.DefaultLimit
	}
	return map[string]any{
		"size":    size,
		"_source": []string{"id"},
		"query":   map[string]any{"bool": boolQuery},
	}
}
