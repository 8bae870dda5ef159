package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kgaurav/dataingest/internal/fetch"
	"github.com/kgaurav/dataingest/internal/sheet"
	"github.com/kgaurav/dataingest/internal/storage"
)

// Options locate the transient local artifacts and the remote key namespace.
type Options struct {
	// OutputDir is where the raw download and the JSON artifact live.
	OutputDir string
	// OutputBase is the artifact base name; the raw file gets the resolved
	// extension appended, the JSON file a ".json" suffix.
	OutputBase string
	// KeyPrefix is the logical folder the JSON blob is uploaded under.
	KeyPrefix string
}

// Pipeline runs the staged download -> validate -> parse -> upload sequence.
// Control flows strictly forward: each stage runs only when the previous one
// succeeded, and the first failure aborts the run.
type Pipeline struct {
	fetcher fetch.Fetcher
	store   storage.ObjectStore
	opts    Options
	log     zerolog.Logger
}

// New wires the pipeline collaborators. Both the fetcher and the store are
// required.
func New(fetcher fetch.Fetcher, store storage.ObjectStore, opts Options, log zerolog.Logger) (*Pipeline, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("pipeline requires a fetcher")
	}
	if store == nil {
		return nil, fmt.Errorf("pipeline requires an object store")
	}
	if opts.OutputBase == "" {
		opts.OutputBase = "dataingestion"
	}

	return &Pipeline{
		fetcher: fetcher,
		store:   store,
		opts:    opts,
		log:     log,
	}, nil
}

// Run executes one ingestion for req. On failure the returned error carries
// the originating stage's Kind; artifacts already written are left in place
// for the next run's delete-before-write step.
func (p *Pipeline) Run(ctx context.Context, req Request) error {
	// Stage 1: fetch
	res, err := p.fetcher.Fetch(ctx, req.SourceURL)
	if err != nil {
		return fail(KindNetwork, "fetching %s: %w", req.SourceURL, err)
	}
	p.log.Info().Int("status", res.StatusCode).Str("url", req.SourceURL).
		Msg("received response")

	// Stage 2: downloadability guard
	if !res.Downloadable() {
		return fail(KindNotDownloadable, "url %s is not downloadable (content type %q)",
			req.SourceURL, res.ContentType())
	}

	// Stage 3: extension resolution
	candidate := fetch.CandidateExtension(req.SourceURL)
	implied := fetch.ImpliedExtensions(res.ContentType())
	if len(implied) == 0 {
		return fail(KindExtensionMismatch, "content type %q implies no known extensions",
			res.ContentType())
	}
	if !fetch.MatchesExtension(candidate, implied) {
		return fail(KindExtensionMismatch, "url extension %s not among %v implied by content type %q",
			candidate, implied, res.ContentType())
	}
	rawPath := filepath.Join(p.opts.OutputDir, p.opts.OutputBase+candidate)
	p.log.Info().Str("path", rawPath).Msg("resolved output file path")

	// Stage 4: persist raw bytes
	if err := p.persist(res.StatusCode, res.Body, rawPath); err != nil {
		return fail(KindWrite, "persisting download: %w", err)
	}
	p.log.Info().Int("bytes", len(res.Body)).Str("path", rawPath).
		Msg("download persisted")

	// Stage 5: parse and serialize
	records, err := sheet.Parse(rawPath, req.SheetName)
	if err != nil {
		switch {
		case errors.Is(err, sheet.ErrSheetNotFound):
			return fail(KindSheetNotFound, "parsing workbook: %w", err)
		case errors.Is(err, sheet.ErrEmptyTable):
			return fail(KindEmptyTable, "parsing workbook: %w", err)
		default:
			return fail(KindParse, "parsing workbook: %w", err)
		}
	}
	p.log.Info().Int("records", len(records)).Str("sheet", req.SheetName).
		Msg("worksheet converted to records")

	jsonPath := filepath.Join(p.opts.OutputDir, p.opts.OutputBase+".json")
	if err := sheet.WriteJSON(records, jsonPath); err != nil {
		return fail(KindSerialization, "serializing records: %w", err)
	}
	p.log.Info().Str("path", jsonPath).Msg("records serialized to JSON")

	// Stage 6: upload
	bucket := strings.ToLower(req.Bucket)
	created, err := p.store.EnsureBucket(ctx, bucket)
	if err != nil {
		return fail(KindContainerCreate, "ensuring bucket %s: %w", bucket, err)
	}
	if created {
		p.log.Info().Str("bucket", bucket).Msg("bucket created")
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fail(KindSerialization, "reading JSON artifact: %w", err)
	}

	key := path.Join(p.opts.KeyPrefix, filepath.Base(jsonPath))
	if err := p.store.UploadObject(ctx, bucket, key, data, "application/json"); err != nil {
		return fail(KindUpload, "uploading %s: %w", key, err)
	}
	p.log.Info().Str("bucket", bucket).Str("key", key).Msg("upload complete")

	return nil
}
