package poi

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

var poiColumns = []string{"id", "name", "category", "longitude", "latitude", "description"}

func expectedListQuery(t *testing.T) string {
	t.Helper()
	query, args, err := listPOIsQuery()
	require.NoError(t, err)
	require.Empty(t, args)
	return regexp.QuoteMeta(query)
}

func TestPostgresRepository_ListPOIs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(expectedListQuery(t)).
		WillReturnRows(pgxmock.NewRows(poiColumns).
			AddRow("1", "Eiffel Tower", "landmarks", 2.2945, 48.8584, "Iron tower").
			AddRow("5", "Le Comptoir du Relais", "food", 2.3387, 48.8522, "Bistro"))

	repo := NewPostgresRepository(mock, zap.NewNop())
	pois, err := repo.ListPOIs(context.Background())
	require.NoError(t, err)
	require.Len(t, pois, 2)
	assert.Equal(t, models.CategoryLandmarks, pois[0].Category)
	assert.Equal(t, orb.Point{2.2945, 48.8584}, pois[0].Coordinates)
	assert.Equal(t, "5", pois[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SkipsInvalidRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(expectedListQuery(t)).
		WillReturnRows(pgxmock.NewRows(poiColumns).
			AddRow("1", "Eiffel Tower", "landmarks", 2.2945, 48.8584, "Iron tower").
			AddRow("x", "Nowhere", "landmarks", 300.0, 48.0, "").
			AddRow("y", "Mystery", "nightlife", 2.3, 48.8, ""))

	repo := NewPostgresRepository(mock, zap.NewNop())
	pois, err := repo.ListPOIs(context.Background())
	require.NoError(t, err)
	require.Len(t, pois, 1)
	assert.Equal(t, "1", pois[0].ID)
}

func TestPostgresRepository_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dbErr := errors.New("connection refused")
	mock.ExpectQuery(expectedListQuery(t)).WillReturnError(dbErr)

	repo := NewPostgresRepository(mock, zap.NewNop())
	_, err = repo.ListPOIs(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
