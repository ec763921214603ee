package mailer

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/selvaganesh19/mailform/core/logger"

	"github.com/selvaganesh19/mailform/app/assistant"
)

const mimeBoundary = "__MAILFORM_BOUNDARY__"

var contentTypes = map[string]string{
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func contentTypeFor(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// buildMIME assembles the multipart/mixed message for the Gmail raw payload.
// Attachments that cannot be read are skipped so one bad file does not block
// the whole send.
func buildMIME(mail assistant.Mail) string {
	parts := []string{
		fmt.Sprintf("To: %s", mail.To),
		fmt.Sprintf("Subject: %s", mail.Subject),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\n", mimeBoundary),
		fmt.Sprintf("--%s", mimeBoundary),
		`Content-Type: text/plain; charset="UTF-8"`,
		"Content-Transfer-Encoding: 7bit\n",
		mail.Body,
	}

	for _, path := range mail.Attachments {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn(logger.Background(), "mail", "attachment.skip",
				slog.String("file", path),
				slog.String("err", err.Error()),
			)
			continue
		}
		name := filepath.Base(path)
		parts = append(parts,
			fmt.Sprintf("--%s", mimeBoundary),
			fmt.Sprintf("Content-Type: %s; name=%q", contentTypeFor(name), name),
			"Content-Transfer-Encoding: base64",
			fmt.Sprintf("Content-Disposition: attachment; filename=%q\n", name),
			base64.StdEncoding.EncodeToString(data),
		)
	}

	parts = append(parts, fmt.Sprintf("--%s--", mimeBoundary))
	return strings.Join(parts, "\n")
}

// encodeRaw converts the MIME message into Gmail's URL-safe base64 format.
func encodeRaw(message string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(message))
}
