package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/flowpost/flowpost/configs"
	"github.com/flowpost/flowpost/internal/models"
	"github.com/flowpost/flowpost/internal/oauthflow"
	"github.com/flowpost/flowpost/internal/platforms"
	"github.com/flowpost/flowpost/internal/repository"
	"github.com/flowpost/flowpost/internal/transfer"
	"github.com/flowpost/flowpost/pkg/utils"
)

// Redirect indicators surfaced to the connections page. The browser is
// mid-navigation during the OAuth flow, so failures travel as query
// parameters instead of status codes.
const (
	FlowErrMissingParams = "missing_params"
	FlowErrInvalidState  = "invalid_state"
	FlowErrTokenExchange = "token_exchange_failed"
	FlowErrProfileFetch  = "profile_fetch_failed"
	FlowErrDatabase      = "database_error"
	FlowErrUnauthorized  = "unauthorized"
)

// FlowError carries the redirect indicator alongside the underlying cause.
type FlowError struct {
	Code string
	Err  error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}
	return e.Code
}

func (e *FlowError) Unwrap() error { return e.Err }

func flowErr(code string, err error) *FlowError {
	if err != nil {
		slog.Info(err.Error())
	}
	return &FlowError{Code: code, Err: err}
}

type ConnectService interface {
	// AuthorizationURL starts a flow: it writes the pending-flow record and
	// returns the provider authorization URL to redirect to.
	AuthorizationURL(ctx context.Context, userID int64, platform string) (string, error)
	// CompleteCallback finishes a flow. A nil return means the connection
	// was persisted and the pending state cleared.
	CompleteCallback(ctx context.Context, userID int64, platform, code, state string) *FlowError
}

type connectService struct {
	cfg      config.Config
	registry *platforms.Registry
	flows    oauthflow.Store
	cr       repository.ConnectionRepository
}

func NewConnectService(
	cfg config.Config,
	registry *platforms.Registry,
	flows oauthflow.Store,
	cr repository.ConnectionRepository) ConnectService {
	return &connectService{
		cfg:      cfg,
		registry: registry,
		flows:    flows,
		cr:       cr,
	}
}

func (s *connectService) AuthorizationURL(ctx context.Context, userID int64, platform string) (string, error) {
	p, ok := s.registry.Get(platform)
	if !ok || p.ClientID == "" {
		slog.Info("unknown or unconfigured platform", "platform", platform)
		return "", ErrInvalidPlatform
	}

	state, err := oauthflow.NewState()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	flow := &oauthflow.PendingFlow{
		State:     state,
		CreatedAt: time.Now(),
	}

	params := url.Values{}
	params.Add("client_id", p.ClientID)
	params.Add("redirect_uri", p.RedirectURI)
	params.Add("response_type", "code")
	params.Add("scope", p.Scope)
	params.Add("state", state)

	if p.UsesPKCE {
		verifier, challenge, err := oauthflow.NewPKCEPair()
		if err != nil {
			slog.Info(err.Error())
			return "", err
		}
		flow.CodeVerifier = verifier
		params.Add("code_challenge", challenge)
		params.Add("code_challenge_method", oauthflow.ChallengeMethod)
	}

	for key, value := range p.ExtraAuthParams {
		params.Add(key, value)
	}

	// Overwrites any previous initiation for this (user, platform), so only
	// the newest state can validate.
	if err := s.flows.Save(ctx, userID, platform, flow); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s?%s", p.AuthURL, params.Encode()), nil
}

func (s *connectService) CompleteCallback(ctx context.Context, userID int64, platform, code, state string) *FlowError {
	p, ok := s.registry.Get(platform)
	if !ok {
		return flowErr(FlowErrInvalidState, errors.New("unknown platform on callback"))
	}

	flow, err := s.flows.Take(ctx, userID, platform)
	if err != nil {
		return flowErr(FlowErrInvalidState, err)
	}
	if flow == nil {
		return flowErr(FlowErrInvalidState, errors.New("no pending flow for platform"))
	}
	if subtle.ConstantTimeCompare([]byte(flow.State), []byte(state)) != 1 {
		return flowErr(FlowErrInvalidState, errors.New("state mismatch"))
	}

	tokenResponse, err := s.exchangeCodeForToken(ctx, p, code, flow.CodeVerifier)
	if err != nil {
		return flowErr(FlowErrTokenExchange, err)
	}

	profileBody, err := s.fetchProfile(ctx, p, tokenResponse.AccessToken)
	if err != nil {
		return flowErr(FlowErrProfileFetch, err)
	}

	profile, err := p.ExtractProfile(profileBody)
	if err != nil {
		return flowErr(FlowErrProfileFetch, err)
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(tokenResponse.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return flowErr(FlowErrDatabase, err)
	}

	encryptedRefreshToken := ""
	if tokenResponse.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(tokenResponse.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return flowErr(FlowErrDatabase, err)
		}
	}

	caps := p.Capabilities(tokenResponse.Scope)

	connection := &models.Connection{
		UserID:          userID,
		Platform:        platform,
		AccountID:       profile.AccountID,
		AccountName:     profile.DisplayName,
		AccountUsername: profile.Username,
		ProfilePicture:  profile.AvatarURL,
		AccessToken:     encryptedAccessToken,
		RefreshToken:    encryptedRefreshToken,
		TokenExpiresAt:  GetExpiresAt(tokenResponse.ExpiresIn),
		CanPost:         caps.CanPost,
		CanRead:         caps.CanRead,
		CanDelete:       caps.CanDelete,
	}

	_, err = s.cr.Upsert(ctx, connection)
	if err != nil {
		return flowErr(FlowErrDatabase, err)
	}

	// The flow record was already consumed by Take; this clears anything a
	// concurrent re-initiation may have written in the meantime.
	if err := s.flows.Delete(ctx, userID, platform); err != nil {
		slog.Info(err.Error())
	}

	return nil
}

func (s *connectService) exchangeCodeForToken(ctx context.Context, p *platforms.Platform, code, verifier string) (*transfer.TokenResponse, error) {
	data := url.Values{}
	data.Add("grant_type", "authorization_code")
	data.Add("code", code)
	data.Add("redirect_uri", p.RedirectURI)
	if verifier != "" {
		data.Add("code_verifier", verifier)
	}
	if p.AuthStyle != platforms.AuthStyleBasicHeader {
		data.Add("client_id", p.ClientID)
		data.Add("client_secret", p.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if p.AuthStyle == platforms.AuthStyleBasicHeader {
		req.SetBasicAuth(p.ClientID, p.ClientSecret)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResponse transfer.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResponse.AccessToken == "" {
		return nil, errors.New("token response has no access token")
	}

	return &tokenResponse, nil
}

func (s *connectService) fetchProfile(ctx context.Context, p *platforms.Platform, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.ProfileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("profile endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return body, nil
}
