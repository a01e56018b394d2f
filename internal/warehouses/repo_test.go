package warehouses

import (
	"context"
	"testing"

	"github.com/angelmondragon/deliverydesk-backend/pkg/db/dbtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestFindByIDForUpdateLocksRowOnPostgres(t *testing.T) {
	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=deliverydesk dbname=deliverydesk sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var captured string
	require.NoError(t, conn.Callback().Query().After("gorm:query").Register("test:capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	}))

	_, _ = NewRepository(conn).FindByIDForUpdate(context.Background(), uuid.New())
	require.Contains(t, captured, `FROM "warehouses"`)
	require.Contains(t, captured, "FOR UPDATE")
}

func TestFindByIDForUpdateReadsRowOnSQLite(t *testing.T) {
	client := dbtest.Open(t)
	wh := dbtest.Warehouse(t, client, 50)

	got, err := NewRepository(client.DB()).FindByIDForUpdate(context.Background(), wh.ID)
	require.NoError(t, err)
	require.Equal(t, wh.ID, got.ID)

	_, err = NewRepository(client.DB()).FindByIDForUpdate(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
