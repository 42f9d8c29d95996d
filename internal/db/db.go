package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"industry-rag/internal/models"
)

// PassageRecord is a stored passage row. The primary key is the content
// fingerprint, so duplicate texts collapse into one row.
type PassageRecord struct {
	bun.BaseModel `bun:"table:passages,alias:p"`
	ID            string    `bun:"id,pk"`
	Content       string    `bun:"content,notnull"`
	Source        string    `bun:"source"`
	Title         string    `bun:"title"`
	Embedding     []float32 `bun:"embedding,notnull"`
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func ConnectDB(databaseURL, databaseKey string) (*sql.DB, error) {
	dsn := databaseURL + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(databaseKey))), nil
}

// InitDB creates the passages table. The embedding column dimension must
// match the embedder configured for the store.
func InitDB(ctx context.Context, db *bun.DB, vectorSize int) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS passages (
		id text PRIMARY KEY,
		content text NOT NULL,
		source text,
		title text,
		embedding vector(%d) NOT NULL
	)`, vectorSize))
	return err
}

func DropPassages(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().Model((*PassageRecord)(nil)).IfExists().Exec(ctx)
	return err
}

// Store is a pgvector-backed passage store. Unlike the chromem backend it
// embeds passages itself, with the embedder it was constructed with.
type Store struct {
	db         *bun.DB
	embedder   *embeddings.EmbedderImpl
	vectorSize int
}

func NewStore(db *bun.DB, embedder *embeddings.EmbedderImpl, vectorSize int) *Store {
	return &Store{db: db, embedder: embedder, vectorSize: vectorSize}
}

// Insert upserts the passages by fingerprint. Re-inserting an existing text
// overwrites its source metadata (last write wins) and does not grow the
// store, the returned count covers new rows only.
func (s *Store) Insert(ctx context.Context, passages []models.Passage) (int, error) {
	if len(passages) == 0 {
		return 0, nil
	}

	records := make([]PassageRecord, len(passages))
	for i, p := range passages {
		embedding, err := s.embedder.EmbedQuery(ctx, p.Content)
		if err != nil {
			return 0, fmt.Errorf("failed to embed passage: %v", err)
		}
		records[i] = PassageRecord{
			ID:        p.ID,
			Content:   p.Content,
			Source:    p.Metadata["source"],
			Title:     p.Metadata["title"],
			Embedding: embedding,
		}
	}

	before, err := s.count(ctx)
	if err != nil {
		return 0, err
	}

	_, err = s.db.NewInsert().
		Model(&records).
		On("CONFLICT (id) DO UPDATE").
		Set("source = EXCLUDED.source").
		Set("title = EXCLUDED.title").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to store passages: %v", err)
	}

	after, err := s.count(ctx)
	if err != nil {
		return 0, err
	}
	return after - before, nil
}

// Query embeds the query text and returns up to n passages ordered by vector
// distance ascending, i.e. similarity descending.
func (s *Store) Query(ctx context.Context, query string, n int) ([]models.Passage, error) {
	if n <= 0 {
		return nil, nil
	}

	queryEmbedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %v", err)
	}

	var records []PassageRecord
	err = s.db.NewSelect().
		Model(&records).
		Column("id", "content", "source", "title").
		OrderExpr("embedding <-> ?", queryEmbedding).
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search passages: %v", err)
	}

	passages := make([]models.Passage, 0, len(records))
	for _, r := range records {
		passages = append(passages, models.Passage{
			ID:      r.ID,
			Content: r.Content,
			Metadata: map[string]string{
				"source": r.Source,
				"title":  r.Title,
			},
		})
	}
	return passages, nil
}

// Reset drops and recreates the passages table.
func (s *Store) Reset(ctx context.Context) error {
	if err := DropPassages(ctx, s.db); err != nil {
		return fmt.Errorf("failed to drop passages: %v", err)
	}
	if err := InitDB(ctx, s.db, s.vectorSize); err != nil {
		return fmt.Errorf("failed to recreate passages: %v", err)
	}
	return nil
}

func (s *Store) count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*PassageRecord)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count passages: %v", err)
	}
	return n, nil
}
