package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/tweetfeed/internal/config"
)

func TestDialector(t *testing.T) {
	cfg := config.Database{
		Host: "localhost",
		Port: "3306",
		User: "root",
		Pass: "secret",
		Name: "tweetfeed",
	}

	t.Run("mysql", func(t *testing.T) {
		cfg.Driver = "mysql"
		d, err := Dialector(cfg)
		require.NoError(t, err)
		assert.Equal(t, "mysql", d.Name())
	})

	t.Run("postgres", func(t *testing.T) {
		cfg.Driver = "postgres"
		d, err := Dialector(cfg)
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("unknown", func(t *testing.T) {
		cfg.Driver = "oracle"
		_, err := Dialector(cfg)
		assert.Error(t, err)
	})
}
