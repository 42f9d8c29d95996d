package chromemdb

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"testing"
	"unicode"

	"github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"industry-rag/internal/helper"
	"industry-rag/internal/models"
)

const testDims = 64

// hashEmbedding maps tokens into a fixed-size normalized vector. Deterministic
// for identical text, shared tokens pull vectors together, good enough to
// exercise similarity search without a model.
func hashEmbedding(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, testDims)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%testDims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "test_collection", true, "", chromem.EmbeddingFunc(hashEmbedding))
	require.NoError(t, err)
	return store
}

func passages(texts ...string) []models.Passage {
	return helper.DedupDocuments(docsFor(texts...))
}

func docsFor(texts ...string) []models.SearchResult {
	out := make([]models.SearchResult, len(texts))
	for i, text := range texts {
		out[i] = models.SearchResult{Content: text, URL: "http://example.com"}
	}
	return out
}

func TestInsert_CountsOnlyNewPassages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.Insert(ctx, passages("first passage", "second passage"))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 2, store.Count())

	inserted, err = store.Insert(ctx, passages("first passage", "third passage"))
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 3, store.Count())
}

func TestInsert_EmptyBatch(t *testing.T) {
	store := newTestStore(t)

	inserted, err := store.Insert(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestInsert_MetadataLastWriteWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := docsFor("same text")
	first[0].URL = "http://first.example.com"
	_, err := store.Insert(ctx, helper.DedupDocuments(first))
	require.NoError(t, err)

	second := docsFor("same text")
	second[0].URL = "http://second.example.com"
	_, err = store.Insert(ctx, helper.DedupDocuments(second))
	require.NoError(t, err)

	require.Equal(t, 1, store.Count())
	results, err := store.Query(ctx, "same text", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "http://second.example.com", results[0].Metadata["source"])
	assert.Equal(t, helper.Fingerprint("same text"), results[0].ID)
}

func TestQuery_EmptyCollection(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Query(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQuery_NExceedsCollectionSize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, passages("one passage", "two passage", "three passage"))
	require.NoError(t, err)

	results, err := store.Query(ctx, "passage", 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestQuery_OrderedBySimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, passages(
		"Robotics market grows 20% in 2024.",
		"A recipe for fried rice.",
	))
	require.NoError(t, err)

	results, err := store.Query(ctx, "robotics market size", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Robotics market grows 20% in 2024.", results[0].Content)
}

func TestReset_EmptiesAndAcceptsNewData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, passages("some passage"))
	require.NoError(t, err)
	require.Equal(t, 1, store.Count())

	require.NoError(t, store.Reset(ctx))
	assert.Equal(t, 0, store.Count())

	results, err := store.Query(ctx, "some passage", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	inserted, err := store.Insert(ctx, passages("fresh passage"))
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestPersistentStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir, "persist_collection", false, "", chromem.EmbeddingFunc(hashEmbedding))
	require.NoError(t, err)

	inserted, err := store.Insert(ctx, passages("durable passage"))
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	reopened, err := NewStore(dir, "persist_collection", false, "", chromem.EmbeddingFunc(hashEmbedding))
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())

	// content-hash ids keep dedup working across sessions
	inserted, err = reopened.Insert(ctx, passages("durable passage"))
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}
