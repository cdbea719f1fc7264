package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "taskly", cfg.MongoDatabase)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "memory")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidate_DriverURLs(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"postgres without url", Config{JWTSecret: "k", JWTTTL: 1, BcryptCost: 10, StoreDriver: DriverPostgres}, "DATABASE_URL"},
		{"mongo without uri", Config{JWTSecret: "k", JWTTTL: 1, BcryptCost: 10, StoreDriver: DriverMongo}, "MONGO_URI"},
		{"unknown driver", Config{JWTSecret: "k", JWTTTL: 1, BcryptCost: 10, StoreDriver: "sqlite"}, "unknown STORE_DRIVER"},
		{"bad ttl", Config{JWTSecret: "k", JWTTTL: 0, BcryptCost: 10, StoreDriver: DriverMemory}, "JWT_TTL_HOURS"},
		{"bcrypt cost too low", Config{JWTSecret: "k", JWTTTL: 1, BcryptCost: 2, StoreDriver: DriverMemory}, "BCRYPT_COST"},
		{"memory ok", Config{JWTSecret: "k", JWTTTL: 1, BcryptCost: 10, StoreDriver: DriverMemory}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
