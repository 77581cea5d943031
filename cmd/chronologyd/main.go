package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/recordstack/chronology/internal/async"
	"github.com/recordstack/chronology/internal/common"
	"github.com/recordstack/chronology/internal/ingest"
	"github.com/recordstack/chronology/internal/llm/openai"
	"github.com/recordstack/chronology/internal/ocr"
	processor "github.com/recordstack/chronology/internal/pipeline"
	"github.com/recordstack/chronology/internal/repository"
)

func main() {
	zlog, _ := zap.NewProduction()
	defer func() { _ = zlog.Sync() }()
	log := zlog.Sugar()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, slogger)
	if err != nil {
		log.Fatalf("creating DB pool: %v", err)
	}
	defer repository.Close(pool, slogger)

	if err := repository.HealthCheck(ctx, pool, 3*time.Second, slogger); err != nil {
		log.Fatalf("DB health failed: %v", err)
	}
	log.Infow("DB health OK")

	docsRepo := repository.NewDocumentRepository(pool, slogger)
	pagesRepo := repository.NewPageRepository(pool, slogger)
	eventsRepo := repository.NewEventRepository(pool, slogger)

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:   cfg.OCR.Pdftotext,
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		TessdataDir: cfg.OCR.TessdataDir,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
	}, slogger)

	llmClient := openai.NewClient(openai.Config{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		Timeout:         cfg.LLM.Timeout,
		LenientOptional: cfg.LLM.LenientOptional,
	}, slogger)

	ocrStage := processor.NewOCRStage(docsRepo, extractor, slogger)
	eventsStage := processor.NewEventsStage(llmClient, cfg.Pipeline.MinEventConfidence, slogger)
	proc := processor.NewProcessor(slogger, docsRepo, pagesRepo, eventsRepo, ocrStage, eventsStage)

	queue := async.NewProcessorQueue(proc, slogger)

	// Poller: sweep the ingest dir for new files, then claim queued work.
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		ingestor := ingest.NewFSIngestor(docsRepo, slogger)
		ticker := time.NewTicker(cfg.Server.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if cfg.Server.IngestDir != "" {
				if _, _, err := ingestor.IngestDirectory(ctx, cfg.Server.IngestDir, true); err != nil {
					log.Warnw("ingest sweep failed", "dir", cfg.Server.IngestDir, "error", err)
				}
			}
			for {
				doc, err := docsRepo.NextQueued(ctx)
				if err != nil {
					break
				}
				_ = queue.Enqueue(ctx, async.Job{
					DocumentID:  doc.ID,
					SubmittedAt: time.Now().UTC(),
					TraceID:     uuid.NewString(),
				})
			}
		}
	}()

	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	log.Infof("gRPC serving on %s", cfg.Server.GRPCAddr)

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("grpc serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	<-pollerDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	log.Info("stopped")
}
