package config

import "os"

type PlatformCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type Config struct {
	FacebookCredentials  PlatformCredentials
	InstagramCredentials PlatformCredentials
	LinkedinCredentials  PlatformCredentials
	TwitterCredentials   PlatformCredentials
	GoogleCredentials    PlatformCredentials
	PinterestCredentials PlatformCredentials

	PostgresURI string
	RedisURI    string
	FrontendURL string
	BaseURL     string

	BillingAPIURL        string
	BillingAPIKey        string
	BillingWebhookSecret string
	BillingProductBasic  string
	BillingProductPro    string

	OpenAIAPIKey string
	OpenAIModel  string

	ResendAPIKey string
	EmailFrom    string

	SecretKey  string
	CookieName string
}

func LoadConfig() *Config {
	return &Config{
		FacebookCredentials: PlatformCredentials{
			ClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
			ClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("FACEBOOK_REDIRECT_URI", ""),
		},
		InstagramCredentials: PlatformCredentials{
			ClientID:     getEnv("INSTAGRAM_CLIENT_ID", ""),
			ClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("INSTAGRAM_REDIRECT_URI", ""),
		},
		LinkedinCredentials: PlatformCredentials{
			ClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("LINKEDIN_REDIRECT_URI", ""),
		},
		TwitterCredentials: PlatformCredentials{
			ClientID:     getEnv("TWITTER_CLIENT_ID", ""),
			ClientSecret: getEnv("TWITTER_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("TWITTER_REDIRECT_URI", ""),
		},
		GoogleCredentials: PlatformCredentials{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
		},
		PinterestCredentials: PlatformCredentials{
			ClientID:     getEnv("PINTEREST_CLIENT_ID", ""),
			ClientSecret: getEnv("PINTEREST_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("PINTEREST_REDIRECT_URI", ""),
		},
		PostgresURI:          getEnv("POSTGRES_URI", ""),
		RedisURI:             getEnv("REDIS_URI", "127.0.0.1:6379"),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:3000"),
		BillingAPIURL:        getEnv("BILLING_API_URL", "https://api.creem.io"),
		BillingAPIKey:        getEnv("BILLING_API_KEY", ""),
		BillingWebhookSecret: getEnv("BILLING_WEBHOOK_SECRET", ""),
		BillingProductBasic:  getEnv("BILLING_PRODUCT_BASIC", ""),
		BillingProductPro:    getEnv("BILLING_PRODUCT_PRO", ""),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ResendAPIKey:         getEnv("RESEND_API_KEY", ""),
		EmailFrom:            getEnv("EMAIL_FROM", "FlowPost <notifications@flowpost.app>"),
		SecretKey:            getEnv("SECRET_KEY", ""),
		CookieName:           getEnv("COOKIE_NAME", "flowpost_session"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
