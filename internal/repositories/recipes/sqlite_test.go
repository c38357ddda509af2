package recipes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/avolkovs/paintrack/internal/common"
	"github.com/avolkovs/paintrack/internal/dbx"
	"github.com/avolkovs/paintrack/internal/models"
)

type testFixture struct {
	db          *sql.DB
	projectID   string
	miniatureID string
}

func newTestDB(t *testing.T) *testFixture {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		PRAGMA foreign_keys = ON;
		CREATE TABLE projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			game_system TEXT NOT NULL,
			army TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE miniatures (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			miniature_type TEXT NOT NULL,
			progress_status TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE recipes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			miniature_type TEXT NOT NULL,
			steps TEXT NOT NULL,
			paints_used TEXT NOT NULL,
			techniques TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE miniature_recipes (
			miniature_id TEXT NOT NULL REFERENCES miniatures(id) ON DELETE CASCADE,
			recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			PRIMARY KEY (miniature_id, recipe_id)
		);
	`)
	require.NoError(t, err)

	f := &testFixture{
		db:          db,
		projectID:   uuid.NewString(),
		miniatureID: uuid.NewString(),
	}
	now := dbx.FormatTime(time.Now().UTC())

	_, err = db.Exec(
		`INSERT INTO projects (id, name, game_system, army, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.projectID, "Host", "age_of_sigmar", "Stormcast Eternals", now, now)
	require.NoError(t, err)

	_, err = db.Exec(
		`INSERT INTO miniatures (id, project_id, name, miniature_type, progress_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.miniatureID, f.projectID, "Mini", "troop", "unpainted", now, now)
	require.NoError(t, err)

	return f
}

func newRecipe(name string, at time.Time) *models.Recipe {
	return &models.Recipe{
		ID:            uuid.NewString(),
		Name:          name,
		MiniatureType: models.MiniatureTypeTroop,
		Steps:         []string{"prime black", "zenithal white", "contrast"},
		PaintsUsed:    []string{"Wraithbone", "Agaros Dusk"},
		Techniques:    []string{"drybrush"},
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func TestSQLite_InsertAndGetByID_RoundTrip(t *testing.T) {
	f := newTestDB(t)
	repo := NewSQLiteRepository(f.db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := newRecipe("Bone Armor", now)
	require.NoError(t, repo.Insert(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	// element order is part of the recipe and survives storage exactly
	assert.Equal(t, rec.Steps, got.Steps)
	assert.Equal(t, rec.PaintsUsed, got.PaintsUsed)
	assert.Equal(t, rec.Techniques, got.Techniques)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestSQLite_EmptyListsRoundTrip(t *testing.T) {
	f := newTestDB(t)
	repo := NewSQLiteRepository(f.db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := &models.Recipe{
		ID:            uuid.NewString(),
		Name:          "Bare",
		MiniatureType: models.MiniatureTypeCharacter,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.Insert(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Steps)
	assert.Empty(t, got.PaintsUsed)
	assert.Empty(t, got.Techniques)
}

func TestSQLite_List_OrderedByName(t *testing.T) {
	f := newTestDB(t)
	repo := NewSQLiteRepository(f.db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Insert(ctx, newRecipe("Zenithal", now)))
	require.NoError(t, repo.Insert(ctx, newRecipe("Armor", now)))
	require.NoError(t, repo.Insert(ctx, newRecipe("Mud Bases", now)))

	got, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Armor", got[0].Name)
	assert.Equal(t, "Mud Bases", got[1].Name)
	assert.Equal(t, "Zenithal", got[2].Name)
}

func TestSQLite_List_FilterByMiniatureType(t *testing.T) {
	f := newTestDB(t)
	repo := NewSQLiteRepository(f.db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	troop := newRecipe("Troop Scheme", now)
	character := newRecipe("Character Scheme", now)
	character.MiniatureType = models.MiniatureTypeCharacter
	require.NoError(t, repo.Insert(ctx, troop))
	require.NoError(t, repo.Insert(ctx, character))

	mt := models.MiniatureTypeCharacter
	got, err := repo.List(ctx, Filter{MiniatureType: &mt})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, character.ID, got[0].ID)
}

func TestSQLite_Update_Conflict(t *testing.T) {
	f := newTestDB(t)
	repo := NewSQLiteRepository(f.db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := newRecipe("Contended", now)
	require.NoError(t, repo.Insert(ctx, rec))

	rec.UpdatedAt = now.Add(time.Second)
	err := repo.Update(ctx, rec, now.Add(-time.Minute))
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestSQLite_LinkUnlink(t *testing.T) {
	f := newTestDB(t)
	repo := NewSQLiteRepository(f.db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := newRecipe("Linked", now)
	require.NoError(t, repo.Insert(ctx, rec))

	require.NoError(t, repo.Link(ctx, f.miniatureID, rec.ID))
	// linking twice is a no-op, not a constraint violation
	require.NoError(t, repo.Link(ctx, f.miniatureID, rec.ID))

	got, err := repo.ListForMiniature(ctx, f.miniatureID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)

	require.NoError(t, repo.Unlink(ctx, f.miniatureID, rec.ID))
	// absent link is also a no-op
	require.NoError(t, repo.Unlink(ctx, f.miniatureID, rec.ID))

	got, err = repo.ListForMiniature(ctx, f.miniatureID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_DeleteRecipe_KeepsMiniature(t *testing.T) {
	f := newTestDB(t)
	repo := NewSQLiteRepository(f.db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := newRecipe("Doomed", now)
	require.NoError(t, repo.Insert(ctx, rec))
	require.NoError(t, repo.Link(ctx, f.miniatureID, rec.ID))

	require.NoError(t, repo.DeleteLinksByRecipe(ctx, rec.ID))
	require.NoError(t, repo.Delete(ctx, rec.ID))

	_, err := repo.GetByID(ctx, rec.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	// the linked miniature is untouched by recipe deletion
	var count int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM miniatures WHERE id=?`, f.miniatureID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSQLite_DeleteLinksByMiniature(t *testing.T) {
	f := newTestDB(t)
	repo := NewSQLiteRepository(f.db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	r1 := newRecipe("One", now)
	r2 := newRecipe("Two", now)
	require.NoError(t, repo.Insert(ctx, r1))
	require.NoError(t, repo.Insert(ctx, r2))
	require.NoError(t, repo.Link(ctx, f.miniatureID, r1.ID))
	require.NoError(t, repo.Link(ctx, f.miniatureID, r2.ID))

	require.NoError(t, repo.DeleteLinksByMiniature(ctx, f.miniatureID))

	got, err := repo.ListForMiniature(ctx, f.miniatureID)
	require.NoError(t, err)
	assert.Empty(t, got)

	// recipes themselves survive
	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
