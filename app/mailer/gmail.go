package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/selvaganesh19/mailform/core/logger"

	"github.com/selvaganesh19/mailform/app/assistant"
)

const (
	gmailScope   = "https://www.googleapis.com/auth/gmail.send"
	gmailSendURL = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

	sendTimeout = 30 * time.Second
)

// Gmail delivers mail through the Gmail API using stored OAuth credentials.
type Gmail struct {
	cfg Config
}

// NewGmail builds a Gmail mailer. Credential files are resolved lazily at
// send time so the bot can start before authorization completed.
func NewGmail(cfg Config) *Gmail {
	cfg.applyDefaults()
	return &Gmail{cfg: cfg}
}

// Send resolves the subject, builds the MIME payload and posts it to the
// Gmail API.
func (g *Gmail) Send(ctx context.Context, mail assistant.Mail) error {
	mail.Subject = assistant.ResolveSubject(mail.Subject, mail.Topic, mail.Tone)

	client, err := g.client(ctx)
	if err != nil {
		return err
	}

	raw := encodeRaw(buildMIME(mail))
	payload, err := json.Marshal(map[string]string{"raw": raw})
	if err != nil {
		return fmt.Errorf("mailer: marshal payload: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, gmailSendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("mailer: gmail send: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 300 {
		if strings.Contains(string(body), "invalid_grant") {
			g.dropToken(ctx)
		}
		return fmt.Errorf("mailer: gmail send status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	logger.Info(ctx, "mail", "send.ok",
		slog.String("to", logger.SanitizeLimit(mail.To, 128)),
		slog.String("subject", logger.SanitizeLimit(mail.Subject, 128)),
	)
	return nil
}

// dropToken removes an invalid_grant token so the next authorization starts
// clean. A removal failure leaves the poisoned token in place and is logged
// as an error.
func (g *Gmail) dropToken(ctx context.Context) {
	if err := os.Remove(g.cfg.TokenPath); err != nil {
		logger.Error(ctx, "mail", "token.drop_failed",
			slog.String("file", g.cfg.TokenPath),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.Warn(ctx, "mail", "token.dropped",
		slog.String("file", g.cfg.TokenPath),
	)
}

func (g *Gmail) client(ctx context.Context) (*http.Client, error) {
	credJSON, err := os.ReadFile(g.cfg.CredentialsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCredentialsMissing
		}
		return nil, fmt.Errorf("mailer: read credentials: %w", err)
	}

	conf, err := google.ConfigFromJSON(credJSON, gmailScope)
	if err != nil {
		return nil, fmt.Errorf("mailer: parse credentials: %w", err)
	}

	tok, err := g.loadToken()
	if err != nil {
		return nil, err
	}

	return conf.Client(ctx, tok), nil
}

func (g *Gmail) loadToken() (*oauth2.Token, error) {
	raw, err := os.ReadFile(g.cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("mailer: read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("mailer: parse token: %w", err)
	}
	return &tok, nil
}
