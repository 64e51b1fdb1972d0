package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"

	"github.com/ebridges/metaproc/config"
	"github.com/ebridges/metaproc/database"
	"github.com/ebridges/metaproc/handlers"
	"github.com/ebridges/metaproc/loader"
	"github.com/ebridges/metaproc/processor"
)

func newServeCmd(cfg config.Config, opts *rootOptions) *cobra.Command {
	var sourceDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the event-handler HTTP server",
		Long: `serve processes image keys on demand: a GET per key, or a POST with a
batch of storage-event records. Images are fetched from the configured
source bucket (or a local directory) and their metadata is upserted into
the configured database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(opts.verbose)
			if opts.dbURL == "" {
				opts.dbURL = cfg.DatabaseURL
			}
			return runServe(cmd.Context(), cfg, opts.dbURL, sourceDir)
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source-dir", "",
		"Serve images from a local directory instead of the source bucket")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config, dbURL, sourceDir string) error {
	log.Printf("metaproc v%s", version)

	if dbURL == "" {
		return fmt.Errorf("a database URL is required to serve (set %s or pass --db-url)", config.EnvDatabaseURL)
	}
	u, err := config.ParseDatabaseURL(dbURL)
	if err != nil {
		return err
	}
	db, dialect, err := database.Connect(u)
	if err != nil {
		return err
	}
	defer db.Close()

	metadataWriter, err := database.NewDatabaseMetadataWriter(db, dialect)
	if err != nil {
		return err
	}
	if err := metadataWriter.EnsureSchema(); err != nil {
		return err
	}

	eventWriter, err := database.NewProcessorLogWriter(db, dialect)
	if err != nil {
		return err
	}
	if err := eventWriter.EnsureSchema(); err != nil {
		return err
	}

	imageLoader, err := buildLoader(ctx, cfg, sourceDir)
	if err != nil {
		return err
	}

	proc := &processor.Processor{
		Loader:      imageLoader,
		Writer:      metadataWriter,
		Events:      eventWriter,
		ForceUpdate: cfg.ForceUpdate,
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, handlers.NewRouter(proc))
}

func buildLoader(ctx context.Context, cfg config.Config, sourceDir string) (loader.ImageLoader, error) {
	if sourceDir != "" {
		log.Printf("serving images from local directory: %s", sourceDir)
		return loader.NewLocalLoader(sourceDir), nil
	}
	if cfg.SourceBucket == "" {
		return nil, fmt.Errorf("a source bucket is required to serve (set %s or pass --source-dir)", config.EnvSourceBucket)
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log.Printf("serving images from bucket: %s", cfg.SourceBucket)
	return loader.NewGCSLoader(client, cfg.SourceBucket), nil
}
