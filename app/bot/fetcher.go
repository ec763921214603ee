package bot

import (
	"context"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/selvaganesh19/mailform/core/logger"
)

// fileFetcher downloads Telegram uploads into the attachment store.
type fileFetcher struct {
	app *App
}

func (f *fileFetcher) Fetch(ctx context.Context, fileID, name string) (string, error) {
	b := f.app.bot.Load()
	if b == nil {
		return "", fmt.Errorf("bot: not started yet")
	}

	rc, err := b.File(&tele.File{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("bot: download file: %w", err)
	}
	defer rc.Close()

	path, err := f.app.files.Save(name, rc)
	if err != nil {
		return "", err
	}

	logger.Debug(ctx, "app", "attachment.saved",
		slog.String("file", name),
	)
	return path, nil
}
