package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Authentication modes for Drive.
const (
	AuthServiceAccount = "service_account"
	AuthOAuth          = "oauth"
)

// DriveAuth describes how to authenticate against Drive.
type DriveAuth struct {
	Mode            string
	CredentialsFile string
	// TokenFile caches the user token for AuthOAuth.
	TokenFile string
	// Endpoint overrides the API base URL. Tests only.
	Endpoint string
}

// Prompt carries the terminal used for the interactive OAuth consent step.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// NewDriveService builds a read-only Drive client.
func NewDriveService(ctx context.Context, auth DriveAuth, prompt Prompt, logger *zap.Logger) (*drive.Service, error) {
	if auth.Endpoint != "" {
		return drive.NewService(ctx, option.WithEndpoint(auth.Endpoint), option.WithoutAuthentication())
	}

	data, err := os.ReadFile(auth.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	switch auth.Mode {
	case AuthServiceAccount, "":
		cfg, err := google.JWTConfigFromJSON(data, drive.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parsing service account credentials: %w", err)
		}
		logger.Debug("using service account", zap.String("email", cfg.Email))
		return newService(ctx, cfg.Client(ctx))
	case AuthOAuth:
		cfg, err := google.ConfigFromJSON(data, drive.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parsing OAuth client credentials: %w", err)
		}
		tok, err := userToken(ctx, cfg, auth.TokenFile, prompt, logger)
		if err != nil {
			return nil, err
		}
		ts := newCachingTokenSource(cfg.TokenSource(ctx, tok), tok, auth.TokenFile, logger)
		return newService(ctx, oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)))
	default:
		return nil, fmt.Errorf("unknown drive auth mode %q", auth.Mode)
	}
}

func newService(ctx context.Context, client *http.Client) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return svc, nil
}

// userToken returns the cached token, or runs the consent flow and caches
// the result.
func userToken(ctx context.Context, cfg *oauth2.Config, tokenFile string, prompt Prompt, logger *zap.Logger) (*oauth2.Token, error) {
	if tok, err := readToken(tokenFile); err == nil {
		return tok, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("ignoring unreadable token file", zap.String("path", tokenFile), zap.Error(err))
	}

	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(prompt.Out, "Open the following link in your browser, then paste the authorization code:\n%s\n> ", url)

	var code string
	if _, err := fmt.Fscan(prompt.In, &code); err != nil {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}

	tok, err := cfg.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	if tokenFile != "" {
		if err := writeToken(tokenFile, tok); err != nil {
			logger.Warn("could not cache token", zap.String("path", tokenFile), zap.Error(err))
		}
	}
	return tok, nil
}

// cachingTokenSource writes refreshed tokens back to the token file so the
// next run starts from the newest refresh token.
type cachingTokenSource struct {
	base   oauth2.TokenSource
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

func newCachingTokenSource(base oauth2.TokenSource, initial *oauth2.Token, path string, logger *zap.Logger) *cachingTokenSource {
	return &cachingTokenSource{base: base, path: path, logger: logger, last: initial.AccessToken}
}

func (s *cachingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" || tok.AccessToken == s.last {
		return tok, nil
	}
	if err := writeToken(s.path, tok); err != nil {
		s.logger.Warn("could not cache refreshed token", zap.String("path", s.path), zap.Error(err))
		return tok, nil
	}
	s.last = tok.AccessToken
	s.logger.Debug("cached refreshed token", zap.String("path", s.path))
	return tok, nil
}

func readToken(path string) (*oauth2.Token, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	return &tok, nil
}

func writeToken(path string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshaling token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}
