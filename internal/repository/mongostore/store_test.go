package mongostore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/building-ledger/internal/repository"
	"github.com/riteshkumar/building-ledger/internal/repository/storetest"
)

// Runs against a replica set only when LEDGER_TEST_MONGO_URI is set, e.g.
// "mongodb://localhost:27017/?replicaSet=rs0".
func TestStore_Contract(t *testing.T) {
	uri := os.Getenv("LEDGER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("LEDGER_TEST_MONGO_URI not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	n := 0
	storetest.Run(t, func(t *testing.T) repository.Store {
		n++
		ctx := context.Background()
		dbName := fmt.Sprintf("ledger_test_%d_%d", time.Now().UnixNano(), n)

		s, err := Connect(ctx, uri, dbName, logger)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = s.db.Drop(ctx)
			_ = s.Close(ctx)
		})
		return s
	})
}
