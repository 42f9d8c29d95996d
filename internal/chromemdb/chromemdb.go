package chromemdb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"industry-rag/internal/models"
)

const compress = false

// Store encapsulates the chromem-go database operations for one named
// collection. The collection is bound to a single embedding function at
// creation, so similarity comparisons stay valid for its whole lifetime.
type Store struct {
	db            *chromem.DB
	collection    *chromem.Collection
	embedFn       chromem.EmbeddingFunc
	name          string
	dbPath        string
	encryptionKey string
	filePath      string
}

// NewStore initializes the vector database and binds the named collection to
// the given embedding function. A failure here is fatal for the engine, there
// is no internal retry.
func NewStore(dbPath, collectionName string, inMemory bool, encryptionKey string, embedFn chromem.EmbeddingFunc) (*Store, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}

	return &Store{
		db:            db,
		collection:    collection,
		embedFn:       embedFn,
		name:          collectionName,
		dbPath:        dbPath,
		encryptionKey: encryptionKey,
		filePath:      dbPath + "/" + collectionName + ".chromem",
	}, nil
}

// Insert adds the passages to the collection. Identical texts carry identical
// ids, so re-inserting is an overwrite of the same entry and the reported
// count only grows by the number of passages not already present.
func (s *Store) Insert(ctx context.Context, passages []models.Passage) (int, error) {
	if len(passages) == 0 {
		return 0, nil
	}

	docs := make([]chromem.Document, len(passages))
	for i, p := range passages {
		docs[i] = chromem.Document{
			ID:       p.ID,
			Content:  p.Content,
			Metadata: p.Metadata,
		}
	}

	before := s.collection.Count()
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return 0, fmt.Errorf("failed to add documents: %v", err)
	}
	return s.collection.Count() - before, nil
}

// Query embeds the query text and returns up to n passages ordered by
// similarity descending. n larger than the collection is clamped, an empty
// collection yields an empty result, neither is an error.
func (s *Store) Query(ctx context.Context, query string, n int) ([]models.Passage, error) {
	count := s.collection.Count()
	if count == 0 || n <= 0 {
		return nil, nil
	}
	if n > count {
		n = count
	}

	results, err := s.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	passages := make([]models.Passage, len(results))
	for i, r := range results {
		passages[i] = models.Passage{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: r.Metadata,
		}
	}
	return passages, nil
}

// Reset deletes all passages and rebinds a fresh empty collection to the same
// embedding function. The old handle is replaced only after the recreate
// succeeds, so a failed recreate surfaces as an error instead of leaving a
// half-initialized collection in use.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("failed to drop collection: %v", err)
	}
	collection, err := s.db.CreateCollection(s.name, nil, s.embedFn)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %v", err)
	}
	s.collection = collection
	return nil
}

// Count returns the number of stored passages.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Export writes the collection to an encrypted file.
func (s *Store) Export(ctx context.Context) error {
	if s.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}

	log.Debug().Msgf("Collection name: %s", s.name)
	log.Debug().Msgf("File path: %s", s.filePath)

	if err := s.db.ExportToFile(s.filePath, compress, s.encryptionKey, s.name); err != nil {
		return fmt.Errorf("failed to export database: %v", err)
	}
	return nil
}

// Import loads a previously exported collection file.
func (s *Store) Import(ctx context.Context) error {
	if err := s.db.ImportFromFile(s.filePath, s.encryptionKey, s.name); err != nil {
		return fmt.Errorf("failed to import database: %v", err)
	}
	s.collection = s.db.GetCollection(s.name, s.embedFn)
	return nil
}
