// Package audit writes verification outcomes to Elasticsearch so reviewers
// can search them by application.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"field-verification/internal/common/logger"
	"field-verification/internal/models"
	"field-verification/internal/verification/compare"
	"field-verification/internal/verification/rccompare"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

const DefaultIndex = "verification-results"

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "kind":          {"type": "keyword"},
      "applicationId": {"type": "keyword"},
      "processId":     {"type": "keyword"},
      "docType":       {"type": "keyword"},
      "vehicleNo":     {"type": "keyword"},
      "score":         {"type": "float"},
      "verdict":       {"type": "keyword"},
      "hardFail":      {"type": "boolean"},
      "reasons":       {"type": "text"},
      "details":       {"type": "object", "enabled": false},
      "jobKey":        {"type": "long"},
      "createdAt":     {"type": "date"}
    }
  }
}`

// Indexer stores VerificationRecords. A nil *Indexer discards everything.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
	now    func() time.Time
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	if index == "" {
		index = DefaultIndex
	}
	return &Indexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "audit", "index": index}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Source identifies the job that produced a verification.
type Source struct {
	ApplicationID string
	ProcessID     string
	JobKey        int64
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	if i == nil {
		return nil
	}

	res, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("check index %s: %w", i.index, err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index %s: %s", i.index, res.Status())
	}

	res, err = esapi.IndicesCreateRequest{
		Index: i.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", i.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", i.index, res.String())
	}

	i.logger.Info("audit index created", nil)
	return nil
}

// Index writes rec, assigning an id and timestamp when missing, and returns
// the document id.
func (i *Indexer) Index(ctx context.Context, rec *models.VerificationRecord) (string, error) {
	if i == nil {
		return rec.ID, nil
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = i.now()
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal audit record: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: rec.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("index audit record: %s", res.String())
	}
	return rec.ID, nil
}

// IndexDocument records a document field comparison.
func (i *Indexer) IndexDocument(ctx context.Context, id string, src Source, result compare.Result) (string, error) {
	return i.Index(ctx, &models.VerificationRecord{
		ID:            id,
		Kind:          models.VerificationKindDocument,
		ApplicationID: src.ApplicationID,
		ProcessID:     src.ProcessID,
		DocType:       string(result.DocType),
		Score:         result.FinalScore,
		Verdict:       string(result.Verdict),
		HardFail:      result.HardFail,
		Reasons:       result.Reasons,
		Details:       map[string]interface{}{"fieldScores": result.FieldScores},
		JobKey:        src.JobKey,
	})
}

// IndexPlate records an officer-versus-registry decision for a plate.
func (i *Indexer) IndexPlate(ctx context.Context, id string, src Source, vehicleNo string, decision rccompare.Decision) (string, error) {
	return i.Index(ctx, &models.VerificationRecord{
		ID:            id,
		Kind:          models.VerificationKindPlate,
		ApplicationID: src.ApplicationID,
		ProcessID:     src.ProcessID,
		VehicleNo:     vehicleNo,
		Score:         decision.Score * 100,
		Verdict:       string(decision.Level),
		HardFail:      decision.Level == rccompare.LevelRejected,
		Reasons:       []string{decision.Reason},
		Details: map[string]interface{}{
			"overall": decision.Overall,
			"fields":  decision.Fields,
		},
		JobKey: src.JobKey,
	})
}

// FindByApplication returns the newest records for an application.
func (i *Indexer) FindByApplication(ctx context.Context, applicationID string, size int) ([]models.VerificationRecord, error) {
	if i == nil {
		return nil, nil
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"applicationId": applicationID},
		},
		"sort": []interface{}{
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		},
		"size": size,
	}
	body, _ := json.Marshal(query)

	res, err := esapi.SearchRequest{
		Index: []string{i.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search audit records: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.VerificationRecord `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode audit search: %w", err)
	}

	out := make([]models.VerificationRecord, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
