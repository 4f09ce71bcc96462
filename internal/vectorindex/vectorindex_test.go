// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorindex

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder embeds text as keyword counts over a fixed vocabulary.
type keywordEmbedder struct {
	vocab []string
	calls int
	err   error
}

func (k *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	k.calls++
	if k.err != nil {
		return nil, k.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(k.vocab))
		lower := strings.ToLower(text)
		for j, w := range k.vocab {
			vec[j] = float32(strings.Count(lower, w))
		}
		out[i] = vec
	}
	return out, nil
}

func (k *keywordEmbedder) Name() string { return "keyword" }

func newEmbedder() *keywordEmbedder {
	return &keywordEmbedder{vocab: []string{"rate", "inflation", "election", "weather"}}
}

func TestSQLiteIndex_QueryRanksBySimilarity(t *testing.T) {
	idx, err := NewSQLite("", newEmbedder())
	require.NoError(t, err)
	defer idx.Close()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx,
		[]string{"The election is in November.", "Inflation pushed the rate up; rate cuts are unlikely.", "Sunny weather ahead."},
		[]map[string]any{{"url": "https://e.example"}, {"url": "https://r.example"}, {"url": "https://w.example"}},
	))

	docs, err := idx.Query(ctx, "Will the Fed cut the rate?", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Inflation pushed the rate up; rate cuts are unlikely.", docs[0].Text)
	assert.Equal(t, "https://r.example", docs[0].Metadata["url"])
	assert.Greater(t, docs[0].Score, docs[1].Score)
	assert.NotEmpty(t, docs[0].ID)
}

func TestSQLiteIndex_TiesKeepInsertionOrder(t *testing.T) {
	idx, err := NewSQLite("", newEmbedder())
	require.NoError(t, err)
	defer idx.Close()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, []string{"first", "second"}, nil))
	require.NoError(t, idx.Add(ctx, []string{"third"}, nil))

	docs, err := idx.Query(ctx, "nothing relevant", 10)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{docs[0].Text, docs[1].Text, docs[2].Text})
}

func TestSQLiteIndex_CollectionsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	a, err := NewSQLite(path, newEmbedder())
	require.NoError(t, err)
	b, err := NewSQLite(path, newEmbedder())
	require.NoError(t, err)
	assert.NotEqual(t, a.Collection(), b.Collection())

	require.NoError(t, a.Add(ctx, []string{"rate"}, nil))
	require.NoError(t, b.Add(ctx, []string{"weather", "election"}, nil))

	na, err := a.Len(ctx)
	require.NoError(t, err)
	nb, err := b.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, na)
	assert.Equal(t, 2, nb)

	require.NoError(t, a.Close())
	nb, err = b.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, nb, "closing one collection leaves the other")
	require.NoError(t, b.Close())
}

func TestSQLiteIndex_MetadataLengthMismatch(t *testing.T) {
	idx, err := NewSQLite("", newEmbedder())
	require.NoError(t, err)
	defer idx.Close()

	err = idx.Add(context.Background(), []string{"a", "b"}, []map[string]any{{"k": "v"}})
	assert.ErrorContains(t, err, "metadatas")
}

func TestSQLiteIndex_EmbedderError(t *testing.T) {
	e := newEmbedder()
	e.err = errors.New("quota exceeded")
	idx, err := NewSQLite("", e)
	require.NoError(t, err)
	defer idx.Close()

	assert.ErrorIs(t, idx.Add(context.Background(), []string{"a"}, nil), e.err)
}

func TestSQLiteIndex_EmptyInputs(t *testing.T) {
	e := newEmbedder()
	idx, err := NewSQLite("", e)
	require.NoError(t, err)
	defer idx.Close()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, nil, nil))
	assert.Equal(t, 0, e.calls)

	docs, err := idx.Query(ctx, "rate", 0)
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = idx.Query(ctx, "rate", 3)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

// queryAwareEmbedder records which path embedded each text.
type queryAwareEmbedder struct {
	*keywordEmbedder
	queries []string
}

func (q *queryAwareEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	q.queries = append(q.queries, text)
	vectors, err := q.keywordEmbedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func TestSQLiteIndex_QueryUsesQueryEmbedding(t *testing.T) {
	e := &queryAwareEmbedder{keywordEmbedder: newEmbedder()}
	idx, err := NewSQLite("", e)
	require.NoError(t, err)
	defer idx.Close()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, []string{"rate news", "weather news"}, nil))
	docs, err := idx.Query(ctx, "rate outlook", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "rate news", docs[0].Text)
	assert.Equal(t, []string{"rate outlook"}, e.queries)
	assert.Equal(t, 2, e.calls, "one Add batch plus the query through EmbedQuery")
}
