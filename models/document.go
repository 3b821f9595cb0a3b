package models

// Metadata categories for indexed documents.
const (
	CategoryProfile      = "profile"
	CategoryProject      = "project"
	CategoryConversation = "conversation"
)

// Document is a single unit of indexed text in the vector store.
type Document struct {
	ID       string                 `json:"id"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// QueryResults holds one semantic query's matches as three index-aligned
// lists. Distances come straight from the vector store; lower means more
// relevant. Ordering is the store's relevance order.
type QueryResults struct {
	Documents []string                 `json:"documents"`
	Metadatas []map[string]interface{} `json:"metadatas"`
	Distances []float32                `json:"distances"`
}

// NewQueryResults returns an empty, non-nil result set.
func NewQueryResults() *QueryResults {
	return &QueryResults{
		Documents: []string{},
		Metadatas: []map[string]interface{}{},
		Distances: []float32{},
	}
}

// Len reports the number of matches in the result set.
func (r *QueryResults) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Documents)
}

// Append adds a single match to the end of the result set, keeping the three
// lists aligned.
func (r *QueryResults) Append(doc string, metadata map[string]interface{}, distance float32) {
	r.Documents = append(r.Documents, doc)
	r.Metadatas = append(r.Metadatas, metadata)
	r.Distances = append(r.Distances, distance)
}
