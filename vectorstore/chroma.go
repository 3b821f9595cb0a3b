package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
)

// ChromaStore implements Store on a ChromaDB collection. Document and query
// text is embedded through the injected Embedder before hitting the
// collection, mirroring how the backend expects pre-computed vectors.
type ChromaStore struct {
	collection chromago.Collection
	embedder   Embedder
	logger     *zap.Logger
}

func NewChromaStore(collection chromago.Collection, embedder Embedder, logger *zap.Logger) *ChromaStore {
	return &ChromaStore{
		collection: collection,
		embedder:   embedder,
		logger:     logger,
	}
}

// Add embeds and inserts the given documents.
func (s *ChromaStore) Add(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]chromago.DocumentID, 0, len(docs))
	texts := make([]string, 0, len(docs))
	embs := make([]embeddings.Embedding, 0, len(docs))
	metas := make([]chromago.DocumentMetadata, 0, len(docs))
	for _, doc := range docs {
		vector, err := s.embedder.Embed(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("could not embed document %s: %w", doc.ID, err)
		}
		ids = append(ids, chromago.DocumentID(doc.ID))
		texts = append(texts, doc.Text)
		embs = append(embs, embeddings.NewEmbeddingFromFloat32(vector))
		metas = append(metas, toDocumentMetadata(doc.Metadata))
	}
	err := s.collection.Add(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("failed to add documents to chromadb: %w", err)
	}
	return nil
}

// Delete removes every document matching the filter. An empty filter is
// rejected rather than wiping the collection.
func (s *ChromaStore) Delete(ctx context.Context, where Filter) error {
	if len(where) == 0 {
		return fmt.Errorf("delete requires a non-empty filter")
	}
	if err := s.collection.Delete(ctx, chromago.WithWhereDelete(where.whereClause())); err != nil {
		return fmt.Errorf("failed to delete documents from chromadb: %w", err)
	}
	return nil
}

// Query embeds the text and returns up to nResults matches, optionally
// restricted by the filter. Only the first group of the backend's batched
// response is surfaced.
func (s *ChromaStore) Query(ctx context.Context, text string, nResults int, where Filter) (*models.QueryResults, error) {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query text: %w", err)
	}
	opts := []chromago.CollectionQueryOption{
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chromago.WithNResults(nResults),
	}
	if len(where) > 0 {
		opts = append(opts, chromago.WithWhereQuery(where.whereClause()))
	}
	results, err := s.collection.Query(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	out := models.NewQueryResults()
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()
	if len(documentGroups) == 0 {
		return out, nil
	}
	for i, doc := range documentGroups[0] {
		meta := map[string]interface{}{}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) && metadataGroups[0][i] != nil {
			meta = s.metadataToMap(metadataGroups[0][i])
		}
		var distance float32
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			distance = float32(distanceGroups[0][i])
		}
		out.Append(doc.ContentString(), meta, distance)
	}
	return out, nil
}

// Count reports the number of documents in the collection.
func (s *ChromaStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

// metadataToMap converts a DocumentMetadata into a plain map by marshalling
// it to JSON and back; the metadata type exposes no direct map accessor.
func (s *ChromaStore) metadataToMap(metadata chromago.DocumentMetadata) map[string]interface{} {
	jsonBytes, err := json.Marshal(metadata)
	if err != nil {
		s.logger.Warn("could not marshal document metadata", zap.Error(err))
		return map[string]interface{}{}
	}
	var metadataMap map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &metadataMap); err != nil {
		s.logger.Warn("could not unmarshal document metadata", zap.Error(err))
		return map[string]interface{}{}
	}
	return metadataMap
}

func toDocumentMetadata(meta map[string]interface{}) chromago.DocumentMetadata {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]*chromago.MetaAttribute, 0, len(keys))
	for _, k := range keys {
		switch v := meta[k].(type) {
		case string:
			attrs = append(attrs, chromago.NewStringAttribute(k, v))
		case int:
			attrs = append(attrs, chromago.NewIntAttribute(k, int64(v)))
		case int64:
			attrs = append(attrs, chromago.NewIntAttribute(k, v))
		case float64:
			attrs = append(attrs, chromago.NewFloatAttribute(k, v))
		case bool:
			attrs = append(attrs, chromago.NewBoolAttribute(k, v))
		default:
			attrs = append(attrs, chromago.NewStringAttribute(k, fmt.Sprintf("%v", v)))
		}
	}
	return chromago.NewDocumentMetadata(attrs...)
}

func (f Filter) whereClause() chromago.WhereFilter {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	clauses := make([]chromago.WhereClause, 0, len(keys))
	for _, k := range keys {
		clauses = append(clauses, chromago.EqString(k, f[k]))
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return chromago.And(clauses...)
}
