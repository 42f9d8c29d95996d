package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"industry-rag/internal/chromemdb"
	"industry-rag/internal/config"
	"industry-rag/internal/db"
	"industry-rag/internal/embedding"
	"industry-rag/internal/helper"
	"industry-rag/internal/parser"
	"industry-rag/internal/rag"
	"industry-rag/internal/reranker"
	"industry-rag/internal/search"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	searchQuery := flag.String("search", "", "Search the web and ingest the results")
	filePath := flag.String("file", "", "Path to a document file to ingest")
	query := flag.String("query", "", "Query to retrieve context for")
	topK := flag.Int("top-k", 0, "Number of passages in the final context (0 = config default)")
	reset := flag.Bool("reset", false, "Clear the passage store")
	export := flag.Bool("export", false, "Export the collection to an encrypted file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()
	engine, store := buildEngine(cfg)

	switch {
	case *reset:
		if err := engine.Reset(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error resetting store")
		}
		log.Info().Msg("Passage store cleared")

	case *searchQuery != "":
		searchAndIngest(ctx, engine, cfg, *searchQuery)

	case *filePath != "":
		ingestFile(ctx, engine, cfg, *filePath)

	case *query != "":
		retrieve(ctx, engine, *query, *topK)

	case *export:
		if store == nil {
			log.Fatal().Msg("Export is only supported by the chromem backend")
		}
		if err := store.Export(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error exporting collection")
		}

	default:
		log.Fatal().Msg("Please provide one of -search, -file, -query, -reset or -export")
	}
}

// buildEngine constructs the process-wide components once: embedder, passage
// store, reranker and the engine on top. The chromem store is also returned
// for the export path.
func buildEngine(cfg *config.Config) (*rag.Engine, *chromemdb.Store) {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	var passageStore rag.PassageStore
	var chromemStore *chromemdb.Store
	switch cfg.RAG.Backend {
	case "postgres":
		sqldb, err := db.ConnectDB(cfg.Database.URL, cfg.Database.Key)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to database")
		}
		bunDB := db.NewDB(sqldb, cfg.Database.Debug)
		if err := db.InitDB(context.Background(), bunDB, cfg.Database.VectorSize); err != nil {
			log.Fatal().Err(err).Msg("Error initializing database")
		}
		passageStore = db.NewStore(bunDB, embedder, cfg.Database.VectorSize)
	default:
		if !cfg.RAG.InMemory {
			if err := helper.CreateFolder(cfg.RAG.DBPath); err != nil {
				log.Fatal().Err(err).Msg("Error creating database folder")
			}
		}
		chromemStore, err = chromemdb.NewStore(cfg.RAG.DBPath, cfg.RAG.CollectionName, cfg.RAG.InMemory, cfg.RAG.EncryptionKey, embedding.ChromemFunc(embedder))
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating vector store")
		}
		passageStore = chromemStore
	}

	var scorer rag.Reranker
	switch cfg.Rerank.Provider {
	case "llm":
		scorer = reranker.NewLLMReranker(&cfg.Rerank.LLM)
	case "lexical":
		scorer = reranker.NewLexical()
	default:
		scorer = reranker.NewHTTPClient(cfg.Rerank.BaseURL, cfg.Rerank.Key, cfg.Rerank.Model)
	}

	engine, err := rag.NewEngine(passageStore, scorer, &cfg.RAG)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating engine")
	}
	return engine, chromemStore
}

func searchAndIngest(ctx context.Context, engine *rag.Engine, cfg *config.Config, query string) {
	client := search.NewClient(&cfg.Search)
	results, err := client.Search(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error searching")
	}

	inserted, err := engine.Ingest(ctx, results)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting search results")
	}
	log.Info().Msgf("Ingested %d passages from %d search results", inserted, len(results))
}

func ingestFile(ctx context.Context, engine *rag.Engine, cfg *config.Config, filePath string) {
	docs, err := parser.ParseToDocuments(filePath, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing document")
	}

	inserted, err := engine.Ingest(ctx, docs)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting document")
	}
	log.Info().Msgf("Ingested %d passages from %s", inserted, filePath)
}

func retrieve(ctx context.Context, engine *rag.Engine, query string, topK int) {
	context, err := engine.RetrieveContext(ctx, query, topK)
	if err != nil {
		log.Fatal().Err(err).Msg("Error retrieving context")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Context: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", context)
}
