package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/PabloGalante/convo-insights/internal/adapters/http"
	"github.com/PabloGalante/convo-insights/internal/adapters/scorers"
	firestorestore "github.com/PabloGalante/convo-insights/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/convo-insights/internal/adapters/storage/memory"
	"github.com/PabloGalante/convo-insights/internal/app/engine"
	"github.com/PabloGalante/convo-insights/internal/app/insights"
	"github.com/PabloGalante/convo-insights/internal/config"
	"github.com/PabloGalante/convo-insights/internal/domain"
	"github.com/PabloGalante/convo-insights/internal/jobs"
	"github.com/PabloGalante/convo-insights/internal/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	observability.Init(cfg.LogLevel)

	// Scorers: heuristic fakes for dev, Vertex-backed for real use.
	var (
		sentiment  domain.SentimentClassifier
		similarity domain.SimilarityScorer
	)
	if cfg.UseMockScorers {
		log.Println("[SCORERS] Using heuristic (mock) scorers")
		sentiment = scorers.NewHeuristicSentiment()
		similarity = scorers.NewLexicalSimilarity()
	} else {
		log.Println("[SCORERS] Using Vertex AI scorers")
		gs, err := scorers.NewGenaiScorers(cfg.GCPProjectID, cfg.GCPLocation, cfg.SentimentModel, cfg.EmbeddingModel)
		if err != nil {
			log.Fatalf("error initializing genai scorers: %v", err)
		}
		sentiment = gs
		similarity = gs
	}

	// Readability is always computed locally.
	readability := scorers.NewFleschScorer()

	// Storage: Firestore or Memory
	var (
		convStore   domain.ConversationStore
		turnStore   domain.TurnStore
		reportStore domain.ReportStore
	)

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}

		// 1 store, implements 3 interfaces
		convStore = fsStore
		turnStore = fsStore
		reportStore = fsStore

	default:
		log.Println("[STORE] Using in-memory storage")
		convStore = memstore.NewConversationStore()
		turnStore = memstore.NewTurnStore()
		reportStore = memstore.NewReportStore()
	}

	eng := engine.New(sentiment, similarity, readability,
		engine.WithCallTimeout(cfg.ScorerTimeout),
	)

	svc := insights.NewService(convStore, turnStore, reportStore, eng)

	if cfg.AnalyzerEnabled {
		analyzer := jobs.NewAnalyzer(svc, cfg.AnalyzerIntervalMinutes)
		go func() {
			if err := analyzer.Run(ctx); err != nil {
				log.Printf("background analyzer stopped: %v", err)
			}
		}()
	}

	handler := httpadapter.NewServer(svc)

	port := ":" + cfg.Port
	log.Println("Convo Insights API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}
