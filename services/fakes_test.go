package services

import (
	"context"
	"fmt"

	"github.com/agentciril/portfolio-chat/models"
	"github.com/agentciril/portfolio-chat/vectorstore"
)

// fakeStore is an in-memory vectorstore.Store. Queries return matching
// documents in insertion order with synthetic distances.
type fakeStore struct {
	docs []models.Document

	addErr    error
	deleteErr error
	queryErr  error
	// filteredQueryErr fails only queries that carry a filter, so tests can
	// break the conversation pass without touching the broad pass.
	filteredQueryErr error
	countErr         error

	queryCalls  int
	deleteCalls []vectorstore.Filter
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) Add(_ context.Context, docs []models.Document) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.docs = append(f.docs, docs...)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, where vectorstore.Filter) error {
	f.deleteCalls = append(f.deleteCalls, where)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.docs[:0]
	for _, doc := range f.docs {
		if !matches(doc.Metadata, where) {
			kept = append(kept, doc)
		}
	}
	f.docs = kept
	return nil
}

func (f *fakeStore) Query(_ context.Context, _ string, nResults int, where vectorstore.Filter) (*models.QueryResults, error) {
	f.queryCalls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(where) > 0 && f.filteredQueryErr != nil {
		return nil, f.filteredQueryErr
	}
	out := models.NewQueryResults()
	for i, doc := range f.docs {
		if out.Len() >= nResults {
			break
		}
		if matches(doc.Metadata, where) {
			out.Append(doc.Text, doc.Metadata, float32(i)*0.1)
		}
	}
	return out, nil
}

func (f *fakeStore) Count(_ context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.docs), nil
}

// byCategory returns the stored documents with the given category, in
// insertion order.
func (f *fakeStore) byCategory(category string) []models.Document {
	var out []models.Document
	for _, doc := range f.docs {
		if doc.Metadata["category"] == category {
			out = append(out, doc)
		}
	}
	return out
}

func matches(metadata map[string]interface{}, where vectorstore.Filter) bool {
	for k, v := range where {
		value, ok := metadata[k]
		if !ok || fmt.Sprint(value) != v {
			return false
		}
	}
	return true
}

// fakeLLM scripts Complete responses for the generator tests.
type fakeLLM struct {
	answer      string
	completeErr error

	lastSystem string
	lastUser   string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string, _ float32, _ int) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return f.answer, nil
}

func (f *fakeLLM) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0}, nil
}
