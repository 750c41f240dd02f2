package validation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"veridoc/internal/domain"
	"veridoc/internal/validation/formats"
	"veridoc/internal/validation/quality"
	"veridoc/internal/validation/tamper"
)

// stageResults collects the outputs of the concurrent analysis stages. Each
// goroutine writes disjoint fields, so no locking is needed past g.Wait.
type stageResults struct {
	quality     quality.Report
	edited      bool
	hash        string
	duplicate   bool
	duplicateOf uuid.UUID
	format      formats.Result
}

// analyze fans the independent stages out on an errgroup. Quality, tamper,
// hashing and OCR have no data dependency on each other; format validation
// waits on OCR inside its task. Only the hash-index claim can fail the group -
// every other stage degrades to its zero value.
func (s *Service) analyze(ctx context.Context, docID uuid.UUID, content []byte, docType domain.DocumentType) (*stageResults, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := &stageResults{}

	g.Go(func() error {
		start := s.clock()
		defer s.observeStage("quality", start)

		info, err := s.decoder.Decode(gctx, content)
		if err != nil {
			// Unreadable image scores zero; it must not abort the run.
			results.quality = quality.Failed(err)
			s.log(gctx, slog.LevelWarn, "image decode failed, quality degraded to zero",
				"document_id", docID, "error", err)
			return nil
		}
		results.quality = quality.Analyze(info)
		return nil
	})

	g.Go(func() error {
		start := s.clock()
		defer s.observeStage("tamper", start)

		results.edited = tamper.IsEdited(content, s.tamperPrefixBytes)
		return nil
	})

	g.Go(func() error {
		start := s.clock()
		defer s.observeStage("hash", start)

		sum := sha256.Sum256(content)
		results.hash = hex.EncodeToString(sum[:])

		existing, duplicate, err := s.hashes.Claim(gctx, results.hash, docID)
		if err != nil {
			// Assuming "not a duplicate" on index loss would be a silent
			// security decision; fail the run instead.
			return err
		}
		results.duplicate = duplicate
		results.duplicateOf = existing
		return nil
	})

	g.Go(func() error {
		ocrStart := s.clock()
		extracted := s.ocr.Extract(gctx, content)
		s.observeStage("ocr", ocrStart)

		formatStart := s.clock()
		defer s.observeStage("format", formatStart)
		results.format = formats.Validate(docType, extracted.Text, s.clock())
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) observeStage(stage string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStage(stage, s.clock().Sub(start))
	}
}
