package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	for _, key := range []string{
		"GO_ENV", "HTTP_PORT", "DATABASE_URL", "JWT_SECRET", "REDIS_URL", "REDIS_PASSWORD",
		"CACHE_TTL", "TRENDING_CACHE_TTL", "ANILIST_API_URL", "ANILIST_RATE_PER_SECOND",
		"ANILIST_SYNC_INITIAL_COUNT", "ANILIST_SYNC_WORKERS", "PAGE_SIZE", "PROMETHEUS_ENABLED",
		"LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS",
	} {
		s.T().Setenv(key, "")
	}
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := LoadConfig(false)
	s.Require().NoError(err)

	s.Equal(8080, cfg.HTTPPort)
	s.Equal(24, cfg.PageSize)
	s.Equal(time.Hour, cfg.CatalogCacheTTL())
	s.Equal(5*time.Minute, cfg.TrendingCacheTTL)
	s.Equal("https://graphql.anilist.co", cfg.AniListAPIURL)
	s.True(cfg.IsDevelopment())
	s.NoError(cfg.Validate())
}

func (s *ConfigTestSuite) TestSecretRequiredForServer() {
	_, err := LoadConfig(true)
	s.ErrorContains(err, "JWT_SECRET")

	s.T().Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := LoadConfig(true)
	s.Require().NoError(err)
	s.NoError(cfg.Validate())
}

func (s *ConfigTestSuite) TestOverrides() {
	s.T().Setenv("HTTP_PORT", "9090")
	s.T().Setenv("TRENDING_CACHE_TTL", "90")
	s.T().Setenv("PROMETHEUS_ENABLED", "true")
	s.T().Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	s.T().Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfig(false)
	s.Require().NoError(err)
	s.Equal(9090, cfg.HTTPPort)
	s.Equal(90*time.Second, cfg.TrendingCacheTTL)
	s.True(cfg.PrometheusEnabled)
	s.Equal([]string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	s.Equal("json", cfg.LogFormat)
}

func (s *ConfigTestSuite) TestInvalidValues() {
	s.T().Setenv("HTTP_PORT", "eighty")
	_, err := LoadConfig(false)
	s.ErrorContains(err, "HTTP_PORT")

	s.T().Setenv("HTTP_PORT", "")
	s.T().Setenv("TRENDING_CACHE_TTL", "soon")
	_, err = LoadConfig(false)
	s.ErrorContains(err, "TRENDING_CACHE_TTL")
}

func (s *ConfigTestSuite) TestValidate() {
	s.T().Setenv("PAGE_SIZE", "50")
	s.T().Setenv("LOG_LEVEL", "verbose")
	s.T().Setenv("JWT_SECRET", "short")

	cfg, err := LoadConfig(false)
	s.Require().NoError(err)
	err = cfg.Validate()
	s.ErrorContains(err, "PAGE_SIZE")
	s.ErrorContains(err, "LOG_LEVEL")
	s.ErrorContains(err, "JWT_SECRET")
}
