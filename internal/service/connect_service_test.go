package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	config "github.com/flowpost/flowpost/configs"
	"github.com/flowpost/flowpost/internal/oauthflow"
	"github.com/flowpost/flowpost/internal/platforms"
	"github.com/flowpost/flowpost/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type providerServer struct {
	*httptest.Server

	tokenStatus   int
	profileStatus int
	tokenResponse map[string]interface{}

	lastTokenForm url.Values
	lastAuthz     string
}

func newProviderServer(t *testing.T) *providerServer {
	p := &providerServer{
		tokenStatus:   http.StatusOK,
		profileStatus: http.StatusOK,
		tokenResponse: map[string]interface{}{
			"access_token":  "upstream-access-token",
			"refresh_token": "upstream-refresh-token",
			"expires_in":    3600,
			"scope":         "posts.write posts.read",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		p.lastTokenForm = r.PostForm
		p.lastAuthz = r.Header.Get("Authorization")

		if p.tokenStatus != http.StatusOK {
			w.WriteHeader(p.tokenStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p.tokenResponse)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if p.profileStatus != http.StatusOK {
			w.WriteHeader(p.profileStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":       "acct-1",
			"username": "someone",
			"name":     "Someone",
			"avatar":   "https://cdn.example.com/someone.png",
		})
	})

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Close)
	return p
}

func testPlatform(server *providerServer, usesPKCE bool, authStyle int) *platforms.Platform {
	return &platforms.Platform{
		Name:         "testnet",
		AuthURL:      server.URL + "/oauth/authorize",
		TokenURL:     server.URL + "/oauth/token",
		ProfileURL:   server.URL + "/me",
		Scope:        "posts.write posts.read",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:3000/connect/testnet/callback",
		UsesPKCE:     usesPKCE,
		AuthStyle:    authStyle,
		PostScopes:   []string{"posts.write"},
		ReadScopes:   []string{"posts.read"},
		DeleteScopes: []string{"posts.delete"},
		ExtractProfile: func(body []byte) (*platforms.Profile, error) {
			var m map[string]string
			if err := json.Unmarshal(body, &m); err != nil {
				return nil, err
			}
			return &platforms.Profile{
				AccountID:   m["id"],
				Username:    m["username"],
				DisplayName: m["name"],
				AvatarURL:   m["avatar"],
			}, nil
		},
	}
}

func newConnectService(p *platforms.Platform, cr *fakeConnectionRepo) (ConnectService, oauthflow.Store) {
	cfg := config.Config{SecretKey: testSecretKey}
	flows := oauthflow.NewMemoryStore()
	return NewConnectService(cfg, platforms.NewRegistryWith(p), flows, cr), flows
}

func stateFromAuthURL(t *testing.T, authURL string) url.Values {
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	return parsed.Query()
}

func TestAuthorizationURL(t *testing.T) {
	server := newProviderServer(t)

	t.Run("unknown platform", func(t *testing.T) {
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		_, err := s.AuthorizationURL(context.Background(), 1, "nope")
		assert.ErrorIs(t, err, ErrInvalidPlatform)
	})

	t.Run("unconfigured platform", func(t *testing.T) {
		p := testPlatform(server, false, platforms.AuthStyleBody)
		p.ClientID = ""
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(p, cr)

		_, err := s.AuthorizationURL(context.Background(), 1, "testnet")
		assert.ErrorIs(t, err, ErrInvalidPlatform)
	})

	t.Run("includes state and standard params", func(t *testing.T) {
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		authURL, err := s.AuthorizationURL(context.Background(), 1, "testnet")
		require.NoError(t, err)

		query := stateFromAuthURL(t, authURL)
		assert.Equal(t, "client-id", query.Get("client_id"))
		assert.Equal(t, "code", query.Get("response_type"))
		assert.NotEmpty(t, query.Get("state"))
		assert.Empty(t, query.Get("code_challenge"))
	})

	t.Run("pkce platform includes challenge", func(t *testing.T) {
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, true, platforms.AuthStyleBasicHeader), cr)

		authURL, err := s.AuthorizationURL(context.Background(), 1, "testnet")
		require.NoError(t, err)

		query := stateFromAuthURL(t, authURL)
		assert.NotEmpty(t, query.Get("code_challenge"))
		assert.Equal(t, "S256", query.Get("code_challenge_method"))
	})
}

func TestCompleteCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path persists encrypted connection", func(t *testing.T) {
		server := newProviderServer(t)
		cr := &fakeConnectionRepo{}
		s, flows := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		authURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL).Get("state")

		ferr := s.CompleteCallback(ctx, 7, "testnet", "auth-code", state)
		require.Nil(t, ferr)

		require.Len(t, cr.upserted, 1)
		conn := cr.upserted[0]
		assert.Equal(t, int64(7), conn.UserID)
		assert.Equal(t, "testnet", conn.Platform)
		assert.Equal(t, "acct-1", conn.AccountID)
		assert.Equal(t, "someone", conn.AccountUsername)

		assert.NotEqual(t, "upstream-access-token", conn.AccessToken)
		plaintext, err := utils.Decrypt(conn.AccessToken, []byte(testSecretKey))
		require.NoError(t, err)
		assert.Equal(t, "upstream-access-token", plaintext)

		assert.True(t, conn.CanPost)
		assert.True(t, conn.CanRead)
		assert.False(t, conn.CanDelete)

		// flow is consumed, so replaying the same state fails
		flow, err := flows.Take(ctx, 7, "testnet")
		require.NoError(t, err)
		assert.Nil(t, flow)
		ferr = s.CompleteCallback(ctx, 7, "testnet", "auth-code", state)
		require.NotNil(t, ferr)
		assert.Equal(t, FlowErrInvalidState, ferr.Code)
	})

	t.Run("no pending flow", func(t *testing.T) {
		server := newProviderServer(t)
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		ferr := s.CompleteCallback(ctx, 7, "testnet", "auth-code", "whatever")
		require.NotNil(t, ferr)
		assert.Equal(t, FlowErrInvalidState, ferr.Code)
		assert.Empty(t, cr.upserted)
	})

	t.Run("state mismatch persists nothing", func(t *testing.T) {
		server := newProviderServer(t)
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		_, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)

		ferr := s.CompleteCallback(ctx, 7, "testnet", "auth-code", "forged-state")
		require.NotNil(t, ferr)
		assert.Equal(t, FlowErrInvalidState, ferr.Code)
		assert.Empty(t, cr.upserted)
	})

	t.Run("second initiation invalidates the first", func(t *testing.T) {
		server := newProviderServer(t)
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		firstURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		secondURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)

		firstState := stateFromAuthURL(t, firstURL).Get("state")
		secondState := stateFromAuthURL(t, secondURL).Get("state")
		require.NotEqual(t, firstState, secondState)

		ferr := s.CompleteCallback(ctx, 7, "testnet", "auth-code", firstState)
		require.NotNil(t, ferr)
		assert.Equal(t, FlowErrInvalidState, ferr.Code)

		// a fresh initiation is required after the failed redeem consumed
		// the pending record
		thirdURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		thirdState := stateFromAuthURL(t, thirdURL).Get("state")
		require.Nil(t, s.CompleteCallback(ctx, 7, "testnet", "auth-code", thirdState))
	})

	t.Run("token exchange failure", func(t *testing.T) {
		server := newProviderServer(t)
		server.tokenStatus = http.StatusInternalServerError
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		authURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL).Get("state")

		ferr := s.CompleteCallback(ctx, 7, "testnet", "auth-code", state)
		require.NotNil(t, ferr)
		assert.Equal(t, FlowErrTokenExchange, ferr.Code)
		assert.Empty(t, cr.upserted)
	})

	t.Run("empty access token", func(t *testing.T) {
		server := newProviderServer(t)
		server.tokenResponse = map[string]interface{}{"token_type": "bearer"}
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		authURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL).Get("state")

		ferr := s.CompleteCallback(ctx, 7, "testnet", "auth-code", state)
		require.NotNil(t, ferr)
		assert.Equal(t, FlowErrTokenExchange, ferr.Code)
	})

	t.Run("profile fetch failure", func(t *testing.T) {
		server := newProviderServer(t)
		server.profileStatus = http.StatusForbidden
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		authURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL).Get("state")

		ferr := s.CompleteCallback(ctx, 7, "testnet", "auth-code", state)
		require.NotNil(t, ferr)
		assert.Equal(t, FlowErrProfileFetch, ferr.Code)
		assert.Empty(t, cr.upserted)
	})

	t.Run("database failure", func(t *testing.T) {
		server := newProviderServer(t)
		cr := &fakeConnectionRepo{upsertErr: context.DeadlineExceeded}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		authURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL).Get("state")

		ferr := s.CompleteCallback(ctx, 7, "testnet", "auth-code", state)
		require.NotNil(t, ferr)
		assert.Equal(t, FlowErrDatabase, ferr.Code)
	})

	t.Run("pkce verifier is sent to the token endpoint", func(t *testing.T) {
		server := newProviderServer(t)
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, true, platforms.AuthStyleBasicHeader), cr)

		authURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		query := stateFromAuthURL(t, authURL)

		ferr := s.CompleteCallback(ctx, 7, "testnet", "auth-code", query.Get("state"))
		require.Nil(t, ferr)

		verifier := server.lastTokenForm.Get("code_verifier")
		require.NotEmpty(t, verifier)
		assert.Equal(t, query.Get("code_challenge"), oauthflow.ChallengeFor(verifier))

		// basic-auth platforms keep client credentials out of the body
		assert.Empty(t, server.lastTokenForm.Get("client_secret"))
		assert.NotEmpty(t, server.lastAuthz)
	})

	t.Run("non-pkce exchange omits the verifier", func(t *testing.T) {
		server := newProviderServer(t)
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		authURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL).Get("state")

		require.Nil(t, s.CompleteCallback(ctx, 7, "testnet", "auth-code", state))

		_, hasVerifier := server.lastTokenForm["code_verifier"]
		assert.False(t, hasVerifier)
		assert.Equal(t, "client-secret", server.lastTokenForm.Get("client_secret"))
	})

	t.Run("missing expires_in falls back to sixty days", func(t *testing.T) {
		server := newProviderServer(t)
		server.tokenResponse = map[string]interface{}{
			"access_token": "upstream-access-token",
		}
		cr := &fakeConnectionRepo{}
		s, _ := newConnectService(testPlatform(server, false, platforms.AuthStyleBody), cr)

		authURL, err := s.AuthorizationURL(ctx, 7, "testnet")
		require.NoError(t, err)
		state := stateFromAuthURL(t, authURL).Get("state")

		require.Nil(t, s.CompleteCallback(ctx, 7, "testnet", "auth-code", state))

		require.Len(t, cr.upserted, 1)
		expected := time.Now().Add(60 * 24 * time.Hour)
		assert.WithinDuration(t, expected, cr.upserted[0].TokenExpiresAt, time.Minute)

		// no refresh token means no ciphertext either
		assert.Empty(t, cr.upserted[0].RefreshToken)
	})
}
