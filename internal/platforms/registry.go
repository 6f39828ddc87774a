package platforms

import (
	"strings"

	config "github.com/flowpost/flowpost/configs"
)

const (
	// Client credentials go in the token request body.
	AuthStyleBody = iota
	// Client credentials go in a Basic authorization header (twitter).
	AuthStyleBasicHeader
)

// Profile holds the four canonical fields every provider response is
// normalized into. Missing provider fields stay empty.
type Profile struct {
	AccountID   string
	Username    string
	DisplayName string
	AvatarURL   string
}

type Capabilities struct {
	CanPost   bool
	CanRead   bool
	CanDelete bool
}

// Platform describes one OAuth provider. Everything the connect flow needs
// is data here; the handlers never branch on the platform name.
type Platform struct {
	Name         string
	AuthURL      string
	TokenURL     string
	ProfileURL   string
	Scope        string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	UsesPKCE     bool
	AuthStyle    int
	// Extra authorization request parameters (e.g. access_type=offline).
	ExtraAuthParams map[string]string

	// Scopes that grant each capability on this platform.
	PostScopes   []string
	ReadScopes   []string
	DeleteScopes []string

	ExtractProfile func(body []byte) (*Profile, error)
}

// Capabilities maps the granted scope string onto capability flags. An empty
// granted scope falls back to the requested scope, since several providers
// omit it from the token response.
func (p *Platform) Capabilities(granted string) Capabilities {
	if granted == "" {
		granted = p.Scope
	}
	return Capabilities{
		CanPost:   containsAny(granted, p.PostScopes),
		CanRead:   containsAny(granted, p.ReadScopes),
		CanDelete: containsAny(granted, p.DeleteScopes),
	}
}

func containsAny(granted string, scopes []string) bool {
	for _, s := range scopes {
		if strings.Contains(granted, s) {
			return true
		}
	}
	return false
}

type Registry struct {
	platforms map[string]*Platform
}

func (r *Registry) Get(name string) (*Platform, bool) {
	p, ok := r.platforms[name]
	return p, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	return names
}

// NewRegistryWith builds a registry from an explicit platform table.
func NewRegistryWith(table ...*Platform) *Registry {
	platforms := make(map[string]*Platform, len(table))
	for _, p := range table {
		platforms[p.Name] = p
	}
	return &Registry{platforms: platforms}
}

func NewRegistry(cfg config.Config) *Registry {
	table := []*Platform{
		{
			Name:           "facebook",
			AuthURL:        "https://www.facebook.com/v19.0/dialog/oauth",
			TokenURL:       "https://graph.facebook.com/v19.0/oauth/access_token",
			ProfileURL:     "https://graph.facebook.com/v19.0/me?fields=id,name,picture{url}",
			Scope:          "public_profile,pages_manage_posts,pages_read_engagement",
			ClientID:       cfg.FacebookCredentials.ClientID,
			ClientSecret:   cfg.FacebookCredentials.ClientSecret,
			RedirectURI:    cfg.FacebookCredentials.RedirectURI,
			PostScopes:     []string{"pages_manage_posts"},
			ReadScopes:     []string{"pages_read_engagement", "public_profile"},
			DeleteScopes:   []string{"pages_manage_posts"},
			ExtractProfile: extractFacebook,
		},
		{
			Name:           "instagram",
			AuthURL:        "https://www.instagram.com/oauth/authorize",
			TokenURL:       "https://api.instagram.com/oauth/access_token",
			ProfileURL:     "https://graph.instagram.com/me?fields=id,username,name,profile_picture_url",
			Scope:          "instagram_business_basic,instagram_business_content_publish",
			ClientID:       cfg.InstagramCredentials.ClientID,
			ClientSecret:   cfg.InstagramCredentials.ClientSecret,
			RedirectURI:    cfg.InstagramCredentials.RedirectURI,
			PostScopes:     []string{"instagram_business_content_publish"},
			ReadScopes:     []string{"instagram_business_basic"},
			DeleteScopes:   []string{"instagram_business_content_publish"},
			ExtractProfile: extractInstagram,
		},
		{
			Name:           "linkedin",
			AuthURL:        "https://www.linkedin.com/oauth/v2/authorization",
			TokenURL:       "https://www.linkedin.com/oauth/v2/accessToken",
			ProfileURL:     "https://api.linkedin.com/v2/userinfo",
			Scope:          "openid profile email w_member_social",
			ClientID:       cfg.LinkedinCredentials.ClientID,
			ClientSecret:   cfg.LinkedinCredentials.ClientSecret,
			RedirectURI:    cfg.LinkedinCredentials.RedirectURI,
			PostScopes:     []string{"w_member_social"},
			ReadScopes:     []string{"profile"},
			DeleteScopes:   []string{"w_member_social"},
			ExtractProfile: extractLinkedin,
		},
		{
			Name:           "twitter",
			AuthURL:        "https://twitter.com/i/oauth2/authorize",
			TokenURL:       "https://api.twitter.com/2/oauth2/token",
			ProfileURL:     "https://api.twitter.com/2/users/me?user.fields=profile_image_url",
			Scope:          "tweet.read tweet.write users.read offline.access",
			ClientID:       cfg.TwitterCredentials.ClientID,
			ClientSecret:   cfg.TwitterCredentials.ClientSecret,
			RedirectURI:    cfg.TwitterCredentials.RedirectURI,
			UsesPKCE:       true,
			AuthStyle:      AuthStyleBasicHeader,
			PostScopes:     []string{"tweet.write"},
			ReadScopes:     []string{"tweet.read", "users.read"},
			DeleteScopes:   []string{"tweet.write"},
			ExtractProfile: extractTwitter,
		},
		{
			Name:         "youtube",
			AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:     "https://oauth2.googleapis.com/token",
			ProfileURL:   "https://www.googleapis.com/oauth2/v2/userinfo",
			Scope:        "https://www.googleapis.com/auth/userinfo.profile https://www.googleapis.com/auth/userinfo.email https://www.googleapis.com/auth/youtube.upload",
			ClientID:     cfg.GoogleCredentials.ClientID,
			ClientSecret: cfg.GoogleCredentials.ClientSecret,
			RedirectURI:  cfg.GoogleCredentials.RedirectURI,
			ExtraAuthParams: map[string]string{
				"access_type": "offline",
				"prompt":      "consent",
			},
			PostScopes:     []string{"youtube.upload"},
			ReadScopes:     []string{"userinfo.profile"},
			DeleteScopes:   []string{"youtube.upload"},
			ExtractProfile: extractGoogle,
		},
		{
			Name:           "pinterest",
			AuthURL:        "https://www.pinterest.com/oauth/",
			TokenURL:       "https://api.pinterest.com/v5/oauth/token",
			ProfileURL:     "https://api.pinterest.com/v5/user_account",
			Scope:          "boards:read,pins:read,pins:write",
			ClientID:       cfg.PinterestCredentials.ClientID,
			ClientSecret:   cfg.PinterestCredentials.ClientSecret,
			RedirectURI:    cfg.PinterestCredentials.RedirectURI,
			AuthStyle:      AuthStyleBasicHeader,
			PostScopes:     []string{"pins:write"},
			ReadScopes:     []string{"pins:read", "boards:read"},
			DeleteScopes:   []string{"pins:write"},
			ExtractProfile: extractPinterest,
		},
	}

	return NewRegistryWith(table...)
}
