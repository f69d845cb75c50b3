package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"site-sync/core/reconcile"
	"site-sync/core/storage"
	"site-sync/feature/content"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncKind        string
	syncFile        string
	syncOrigin      string
	syncPage        int
	duplicateAction string
	forceUpdate     bool
	skipAssets      bool
	preserveIDs     bool
	fixTerms        bool
	threshold       int
	syncJSON        bool
)

// syncCmd reconciles a batch file into the local store.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile a batch file into the local store",
	Long: `Reads a batch of records from a JSON or YAML file and reconciles them
into the local store, exactly as a pushed batch would be.

The file holds either a list of records or a batch document
({kind, records, options}). Flags override the document's options.

Examples:
  # Sync posts, merging slug duplicates whose content is 80% similar
  sync --kind post --file posts.json --duplicate-action sync --threshold 80

  # Sync media descriptors without downloading binaries
  sync --kind attachment --file media.yaml --skip-assets

  # Re-attach terms to already synced posts
  sync --kind post --file posts.json --fix-terms`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncKind, "kind", "", "Kind of the records (post type, attachment, user, option, taxonomy_term, comment)")
	syncCmd.Flags().StringVar(&syncFile, "file", "", "Batch file (.json, .yaml or .yml)")
	syncCmd.Flags().StringVar(&syncOrigin, "origin", "", "Origin source for records that carry none")
	syncCmd.Flags().IntVar(&syncPage, "page", 0, "Page of a paginated run")
	syncCmd.Flags().StringVar(&duplicateAction, "duplicate-action", "skip", "Duplicate policy (skip, sync)")
	syncCmd.Flags().BoolVar(&forceUpdate, "force", false, "Overwrite local records regardless of timestamps")
	syncCmd.Flags().BoolVar(&skipAssets, "skip-assets", false, "Never download media binaries")
	syncCmd.Flags().BoolVar(&preserveIDs, "preserve-ids", false, "Reuse remote ids as local ids")
	syncCmd.Flags().BoolVar(&fixTerms, "fix-terms", false, "Only re-attach terms to synced posts")
	syncCmd.Flags().IntVar(&threshold, "threshold", 0, "Content similarity (0-100) required to accept a duplicate")
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "Print the results as JSON")
	_ = syncCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, l, st, err := openStore()
	if err != nil {
		return err
	}
	defer l.Sync()

	batch, err := readBatchFile(syncFile, reconcile.Options{ContentThreshold: cfg.Sync.ContentThreshold})
	if err != nil {
		return err
	}
	if syncKind != "" {
		batch.Kind = reconcile.Kind(syncKind)
	}
	if syncPage > 0 {
		batch.Page = syncPage
	}
	if syncOrigin != "" {
		for _, rec := range batch.Records {
			if _, ok := rec["origin_source"]; !ok {
				rec["origin_source"] = syncOrigin
			}
		}
	}

	opts := reconcile.Options{ContentThreshold: cfg.Sync.ContentThreshold}
	if batch.Options != nil {
		opts = *batch.Options
	}
	applyOptionFlags(cmd, &opts)
	batch.Options = &opts

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	svc := content.NewService(st, client, cfg.Storage.Bucket, cfg.Sync, l)

	l.Info("Starting batch sync",
		zap.String("kind", string(batch.Kind)),
		zap.Int("records", len(batch.Records)),
		zap.String("duplicate_action", string(opts.DuplicateAction)),
		zap.Bool("skip_assets", opts.SkipAssets),
	)

	results, err := svc.Sync(ctx, batch)
	if err != nil {
		return fmt.Errorf("failed to sync batch: %w", err)
	}

	if syncJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	printSyncReport(l, results)
	return nil
}

// applyOptionFlags overrides opts with the flags set on the command line.
func applyOptionFlags(cmd *cobra.Command, opts *reconcile.Options) {
	flags := cmd.Flags()
	if flags.Changed("duplicate-action") {
		opts.DuplicateAction = reconcile.DuplicateAction(duplicateAction)
	}
	if flags.Changed("force") {
		opts.ForceUpdate = forceUpdate
	}
	if flags.Changed("skip-assets") {
		opts.SkipAssets = skipAssets
	}
	if flags.Changed("preserve-ids") {
		opts.PreserveIDs = preserveIDs
	}
	if flags.Changed("fix-terms") {
		opts.FixTerms = fixTerms
	}
	if flags.Changed("threshold") {
		opts.ContentThreshold = threshold
	}
}

// readBatchFile loads a batch from a JSON or YAML file holding either a
// batch document or a bare list of records. Options the file leaves out keep
// their value from defaults.
func readBatchFile(path string, defaults reconcile.Options) (content.SyncBatchRequest, error) {
	batch := content.SyncBatchRequest{Options: &defaults}

	data, err := os.ReadFile(path)
	if err != nil {
		return batch, fmt.Errorf("failed to read batch file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return batch, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json":
	default:
		return batch, fmt.Errorf("unsupported batch file %s: use .json, .yaml or .yml", path)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &batch.Records)
	} else {
		err = json.Unmarshal(data, &batch)
	}
	if err != nil {
		return batch, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return batch, nil
}

// printSyncReport logs one line per failed or warned record and a summary.
func printSyncReport(l *zap.Logger, results []reconcile.SyncResult) {
	counts := make(map[reconcile.Status]int)
	for _, r := range results {
		counts[r.Status]++
		switch {
		case r.Status == reconcile.StatusError:
			l.Warn("Record failed", zap.String("remote_id", r.RemoteID), zap.String("error", r.Message))
		case len(r.Warnings) > 0:
			l.Info("Record synced with warnings",
				zap.String("remote_id", r.RemoteID),
				zap.Int64("local_id", r.LocalID),
				zap.Strings("warnings", r.Warnings),
			)
		}
	}

	l.Info("Sync report",
		zap.Int("total", len(results)),
		zap.Int("created", counts[reconcile.StatusCreated]),
		zap.Int("updated", counts[reconcile.StatusUpdated]),
		zap.Int("kept_local", counts[reconcile.StatusKeptLocal]),
		zap.Int("errors", counts[reconcile.StatusError]),
	)
}
