package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"adsbot/pkg/domain"
	"adsbot/pkg/storage"
	"adsbot/services/bot/internal/chat"
)

// saveResume downloads doc into the resume directory, checks that it can
// be read and mirrors it to the archive when one is configured.
func (e *Engine) saveResume(ctx context.Context, doc *chat.Document) (domain.FileRef, error) {
	rc, err := e.fetcher.Fetch(ctx, doc.FileID)
	if err != nil {
		return domain.FileRef{}, fmt.Errorf("fetch resume: %w", err)
	}
	defer rc.Close()

	path, err := e.files.Save(doc.FileName, rc)
	if err != nil {
		return domain.FileRef{}, fmt.Errorf("save resume: %w", err)
	}
	if err := storage.CheckResume(path); err != nil {
		e.discardFile(path)
		return domain.FileRef{}, err
	}
	if e.archive != nil {
		e.archiveResume(ctx, path, doc.FileName)
	}
	return domain.FileRef{FileID: doc.FileID, Path: path}, nil
}

func (e *Engine) archiveResume(ctx context.Context, path, original string) {
	key, err := e.archive.Store(ctx, path, map[string]string{"original-name": original})
	if err != nil {
		slog.Warn("resume archive failed", "path", path, "err", err)
		return
	}
	slog.Debug("resume archived", "path", path, "key", key)
}

func (e *Engine) discardFile(path string) {
	if path == "" {
		return
	}
	if err := e.files.Remove(path); err != nil {
		slog.Warn("resume cleanup failed", "path", path, "err", err)
	}
}
