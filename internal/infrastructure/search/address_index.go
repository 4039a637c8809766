package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-address-dispatch/internal/application"
	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
)

const (
	requestTimeout = 3 * time.Second
	bulkTimeout    = 30 * time.Second
)

// AddressIndex keeps addresses searchable in Elasticsearch.
type AddressIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewAddressIndex(es *elasticsearch.Client, index string) *AddressIndex {
	return &AddressIndex{ES: es, IndexName: index}
}

type addressDoc struct {
	entity.Address
	Status entity.Status `json:"status"`
}

func (x *AddressIndex) Index(ctx context.Context, a *entity.Address) error {
	b, err := json.Marshal(addressDoc{Address: *a, Status: a.Status()})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: a.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// IndexBatch writes rows through the bulk API and fails when any item was
// rejected.
func (x *AddressIndex) IndexBatch(ctx context.Context, rows []entity.Address) error {
	if len(rows) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range rows {
		a := &rows[i]
		meta := map[string]any{"index": map[string]any{"_id": a.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(addressDoc{Address: *a, Status: a.Status()}); err != nil {
			return err
		}
	}

	req := esapi.BulkRequest{Index: x.IndexName, Body: &buf, Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es bulk: %s", res.Status())
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return err
	}
	if !parsed.Errors {
		return nil
	}
	failed := 0
	for _, item := range parsed.Items {
		for _, r := range item {
			if r.Status >= 300 {
				failed++
			}
		}
	}
	return fmt.Errorf("es bulk: %d of %d documents rejected", failed, len(rows))
}

// isIndexMissing reports whether an error response says the index does not
// exist yet.
func isIndexMissing(res *esapi.Response) bool {
	if res.StatusCode != http.StatusNotFound {
		return false
	}
	var body struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return false
	}
	return body.Error.Type == "index_not_found_exception"
}

// buildQuery returns a multi_match over the descriptive fields, optionally
// restricted to one assignee.
func buildQuery(q application.SearchQuery) map[string]any {
	boolQ := map[string]any{
		"must": []any{
			map[string]any{
				"multi_match": map[string]any{
					"query":  q.Text,
					"fields": []string{"street^2", "city", "postcode", "house_number"},
				},
			},
		},
	}
	if q.AssignedTo != "" {
		boolQ["filter"] = []any{
			map[string]any{"term": map[string]any{"assigned_to.keyword": q.AssignedTo}},
		}
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQ},
		"size":  q.Size,
	}
}

func (x *AddressIndex) Search(ctx context.Context, q application.SearchQuery) ([]entity.Address, error) {
	b, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if isIndexMissing(res) {
			return []entity.Address{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source addressDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Address, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.Address)
	}
	return out, nil
}

var _ application.AddressSearcher = (*AddressIndex)(nil)
