package projects

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkovs/paintrack/internal/common"
	"github.com/avolkovs/paintrack/internal/models"
)

var projectColumns = []string{"id", "name", "game_system", "army", "description", "created_at", "updated_at"}

func TestPostgres_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	id := uuid.NewString()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id=$1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(id, "Hammers", "age_of_sigmar", "Stormcast Eternals", "", now, now))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.GameSystemAgeOfSigmar, got.GameSystem)
	assert.Equal(t, "Hammers", got.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	id := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id=$1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(projectColumns))

	_, err = repo.GetByID(context.Background(), id)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_List_FilterByGameSystem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE game_system=$1")).
		WithArgs("warhammer_40k").
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(uuid.NewString(), "Ultras", "warhammer_40k", "Ultramarines", "", now, now))

	gs := models.GameSystemWarhammer40k
	got, err := repo.List(context.Background(), Filter{GameSystem: &gs})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ultras", got[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Update_ConflictOnStaleTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now().UTC()
	p := &models.Project{
		ID:         uuid.NewString(),
		Name:       "Contended",
		GameSystem: models.GameSystemWarhammer40k,
		Army:       "Orks",
		CreatedAt:  now,
		UpdatedAt:  now.Add(time.Second),
	}
	stale := now.Add(-time.Minute)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE projects")).
		WithArgs(p.Name, string(p.GameSystem), p.Army, p.Description, p.UpdatedAt, p.ID, stale).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// row still exists, so the miss is a concurrent-update conflict
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id=$1")).
		WithArgs(p.ID).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(p.ID, p.Name, string(p.GameSystem), p.Army, "", now, now))

	err = repo.Update(context.Background(), p, stale)
	require.ErrorIs(t, err, common.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now().UTC()
	p := &models.Project{
		ID:         uuid.NewString(),
		Name:       "Ghost",
		GameSystem: models.GameSystemWarhammer40k,
		Army:       "Orks",
		UpdatedAt:  now,
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE projects")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id=$1")).
		WithArgs(p.ID).
		WillReturnRows(sqlmock.NewRows(projectColumns))

	err = repo.Update(context.Background(), p, now)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	id := uuid.NewString()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects WHERE id=$1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), id)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
