package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vmunix/shelfarr/internal/config"
	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/importer"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/migrations"
	"github.com/vmunix/shelfarr/internal/queue"
	"github.com/vmunix/shelfarr/internal/rootfolder"
	"github.com/vmunix/shelfarr/internal/search"
)

// app holds the wired component graph behind every command.
type app struct {
	cfg         *config.Config
	log         *slog.Logger
	db          *sql.DB
	store       *library.Store
	profiles    map[string]library.Profile
	rootFolders *rootfolder.Service
	bus         *events.Bus
	commands    *queue.Manager
	maker       *importer.Maker
	approver    *importer.Approver
	indexers    []search.Indexer
	dispatcher  *search.Dispatcher
}

func newApp() (*app, error) {
	path := configPath
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = discovered
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	store := library.NewStore(db)

	profiles := make(map[string]library.Profile, len(cfg.Quality.Profiles))
	for name, p := range cfg.Quality.Profiles {
		profiles[name] = library.Profile{Name: name, Accept: p.Accept}
	}

	rootFolders := rootfolder.NewService(cfg.RootFolders, cfg.Quality.Default)
	bus := events.NewBus(events.NewEventLog(db), logger.With("component", "events"))
	commands := queue.NewManager(64, logger.With("component", "queue"))

	identifier := importer.NewIdentificationService(store, logger.With("component", "identification"))
	maker := importer.NewMaker(
		importer.NewReader(),
		identifier,
		store,
		rootFolders,
		importer.DefaultEditionSpecifications(store, profiles),
		importer.DefaultBookSpecifications(store),
		logger.With("component", "decisions"),
	)

	recycle := importer.NewRecycleBin(cfg.Import.RecycleBin, logger.With("component", "recycle"))
	mover := importer.NewMover(importer.NewRenamer("", ""), recycle, store, logger.With("component", "mover"))
	approver := importer.NewApprover(store, mover, nil, bus, commands, profiles, logger.With("component", "approver"))

	indexers := make([]search.Indexer, 0, len(cfg.Indexers.Newznab))
	for _, ic := range cfg.Indexers.Newznab {
		indexers = append(indexers, search.NewNewznabIndexer(ic, logger))
	}
	dispatcher := search.NewDispatcher(
		indexers,
		profiles,
		cfg.Search.MaxSizeMB*1024*1024,
		cfg.Search.MaxConcurrency,
		nil,
		bus,
		logger.With("component", "search"),
	)

	return &app{
		cfg:         cfg,
		log:         logger,
		db:          db,
		store:       store,
		profiles:    profiles,
		rootFolders: rootFolders,
		bus:         bus,
		commands:    commands,
		maker:       maker,
		approver:    approver,
		indexers:    indexers,
		dispatcher:  dispatcher,
	}, nil
}

func (a *app) Close() {
	_ = a.bus.Close()
	_ = a.db.Close()
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// importMode maps the configured mode string to its enum.
func importMode(mode string) importer.ImportMode {
	switch mode {
	case "move":
		return importer.ImportMove
	case "copy":
		return importer.ImportCopy
	default:
		return importer.ImportAuto
	}
}
