package app

import (
	"context"
	"fmt"
	"log"

	"drive-service/internal/audit"
	"drive-service/internal/auth"
	"drive-service/internal/cache"
	"drive-service/internal/config"
	"drive-service/internal/explorer"
	"drive-service/internal/http"
	"drive-service/internal/http/handler"
	"drive-service/internal/memstore"
	"drive-service/internal/repository"
	"drive-service/internal/repository/postgres"
	"drive-service/internal/repository/sqlite"
	"drive-service/internal/storage/s3"
	"drive-service/internal/types"
	"drive-service/internal/upload"
	"drive-service/pkg/metrics"

	"github.com/google/uuid"
)

const (
	errOpenMetadataFmt = "failed to open metadata store: %w"
	errOpenStorageFmt  = "failed to open object store: %w"
	errEnsureBucketFmt = "failed to ensure bucket %s: %w"
)

// ObjectStore is what the drive needs from blob storage.
type ObjectStore interface {
	upload.ObjectWriter
	explorer.ObjectStore
}

// InitializeService wires the stores selected by cfg into the upload pipeline, the
// explorer and the HTTP server.
func InitializeService(cfg *config.Config) (*Service, error) {
	svc := &Service{config: cfg, urlCache: cache.NewURLCache()}
	svc.ctx, svc.stop = context.WithCancel(context.Background())

	entries, audits, err := svc.openMetadata()
	if err != nil {
		svc.stop()
		svc.close()
		return nil, fmt.Errorf(errOpenMetadataFmt, err)
	}

	objects, err := openObjects(&cfg.Storage)
	if err != nil {
		svc.stop()
		svc.close()
		return nil, fmt.Errorf(errOpenStorageFmt, err)
	}

	pipeline := upload.New(entries, objects,
		upload.WithMaxFileSize(cfg.App.MaxFileSize),
		upload.WithMaxFiles(cfg.App.MaxBatchFiles),
		upload.WithObserver(recordUploadOutcome),
	)

	explorers := handler.NewExplorerFactory(entries, objects, explorer.Options{
		DeletePolicy: explorer.DeletePolicy(cfg.App.DeletePolicy),
		MaxDepth:     cfg.App.MaxFolderDepth,
		PreviewTTL:   cfg.App.PreviewURLTTL,
		Cache:        svc.urlCache,
	})

	svc.server = http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Uploader:       pipeline,
		Explorers:      explorers,
		AuthMiddleware: auth.NewMiddleware(auth.NewJWTService(cfg.JWT.Secret)),
		AuditLogger:    audits,
	})

	return svc, nil
}

func (s *Service) openMetadata() (repository.EntryRepository, types.AuditLogger, error) {
	switch s.config.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(s.ctx, &s.config.Database)
		if err != nil {
			return nil, nil, err
		}
		s.closers = append(s.closers, db.Close)
		log.Println("Database connection established")

		var audits types.AuditLogger = audit.Nop{}
		if s.config.AuditActive() {
			audits = audit.NewLogger(db)
			log.Println("Audit trail enabled")
		}
		return postgres.NewEntryRepository(db), audits, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(s.config.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		log.Printf("SQLite database opened at %s", s.config.SQLite.Path)
		return sqlite.NewEntryRepository(db), audit.Nop{}, nil

	default:
		log.Println("Using in-memory metadata store, entries are lost on restart")
		return memstore.NewEntryStore(), audit.Nop{}, nil
	}
}

func openObjects(cfg *config.StorageConfig) (ObjectStore, error) {
	if cfg.Driver == config.DriverMemory {
		log.Println("Using in-memory object store, blobs are lost on restart")
		return memstore.NewObjectStore(cfg.Bucket), nil
	}

	client, err := s3.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), bucketCheckTimeout)
	defer cancel()
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf(errEnsureBucketFmt, cfg.Bucket, err)
	}

	log.Printf("S3 client initialized for bucket %s", cfg.Bucket)
	return client, nil
}

func recordUploadOutcome(_ context.Context, _ uuid.UUID, _ *uuid.UUID, r upload.Result) {
	metrics.RecordUpload(string(r.Outcome))
}
