package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pacomprar/auction-api/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "pacomprar",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "auctions",
	}
	require.Equal(t,
		"pacomprar:s3cret@tcp(db.internal:3306)/auctions?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "root",
		DBHost: "127.0.0.1",
		DBPort: "3307",
		DBName: "auctions_test",
	}
	// no colon in the auth part when the password is empty
	require.Equal(t,
		"root@tcp(127.0.0.1:3307)/auctions_test?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
