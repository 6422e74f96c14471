package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/inzone-go-api/internal/models"
)

func TestRepositoryFiltersByColumn(t *testing.T) {
	db := setupQueryTestDB(t)
	repo := New[models.RoleType](db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.RoleType{Name: "student"}))
	require.NoError(t, repo.Create(ctx, &models.RoleType{Name: "admin"}))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "student", all[0].Name)

	admin, err := repo.FirstBy(ctx, Filter{"name": "admin"})
	require.NoError(t, err)
	require.Equal(t, "admin", admin.Name)

	byID, err := repo.FirstBy(ctx, Filter{"id": "1"})
	require.NoError(t, err)
	require.Equal(t, "student", byID.Name)

	_, err = repo.FirstBy(ctx, Filter{"name": "ghost"})
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	none, err := repo.FindBy(ctx, Filter{"name": "ghost"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRepositoryRejectsUnknownAndHiddenFields(t *testing.T) {
	db := setupQueryTestDB(t)
	repo := New[models.Student](db)

	_, err := repo.FindBy(context.Background(), Filter{"nickname": "x"})
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = repo.FindBy(context.Background(), Filter{"password_hash": "x"})
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = repo.FindBy(context.Background(), Filter{"role_type_id": "abc"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid value for field")
}

func TestRepositoryFindWhere(t *testing.T) {
	db := setupQueryTestDB(t)
	repo := New[models.Course](db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &models.Course{Name: "Past", StartDate: now.Add(-48 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Course{Name: "Future", StartDate: now.Add(48 * time.Hour)}))

	upcoming, err := repo.FindWhere(ctx, "start_date >= ?", now)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "Future", upcoming[0].Name)

	_, err = repo.FindWhere(ctx, " ")
	require.Error(t, err)
}

func TestRepositoryUpdateEachSavesChangedRows(t *testing.T) {
	db := setupQueryTestDB(t)
	repo := New[models.CourseLocation](db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.CourseLocation{Name: "Hall A", City: "Zurich"}))
	require.NoError(t, repo.Create(ctx, &models.CourseLocation{Name: "Hall B", City: "Zurich"}))
	require.NoError(t, repo.Create(ctx, &models.CourseLocation{Name: "Hall C", City: "Bern"}))

	matched, err := repo.UpdateEach(ctx, Filter{"city": "Zurich"}, func(item *models.CourseLocation) bool {
		return item.Update(map[string]any{"address": "Main street 1"})
	})
	require.NoError(t, err)
	require.Equal(t, 2, matched)

	updated, err := repo.FindBy(ctx, Filter{"address": "Main street 1"})
	require.NoError(t, err)
	require.Len(t, updated, 2)

	_, err = repo.UpdateEach(ctx, Filter{"city": "Geneva"}, func(*models.CourseLocation) bool { return true })
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateBatchIsAtomic(t *testing.T) {
	db := setupQueryTestDB(t)
	repo := New[models.StudentAnswer](db)
	ctx := context.Background()

	answers := []models.StudentAnswer{
		{StudentID: 1, CourseID: 1, QuestionID: 1, Answer: "a"},
		{StudentID: 1, CourseID: 1, QuestionID: 2, Answer: "b"},
	}
	require.NoError(t, repo.CreateBatch(ctx, answers))

	duplicate := []models.StudentAnswer{
		{StudentID: 1, CourseID: 1, QuestionID: 3, Answer: "c"},
		{StudentID: 1, CourseID: 1, QuestionID: 1, Answer: "again"},
	}
	require.Error(t, repo.CreateBatch(ctx, duplicate))

	stored, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2, "failed batch must not leave partial rows")
}

func TestRepositorySaveAndDelete(t *testing.T) {
	db := setupQueryTestDB(t)
	repo := New[models.SupportedLanguage](db)
	ctx := context.Background()

	language := models.SupportedLanguage{Code: "de", Name: "German"}
	require.NoError(t, repo.Create(ctx, &language))

	language.Name = "Deutsch"
	require.NoError(t, repo.Save(ctx, &language))

	stored, err := repo.FirstBy(ctx, Filter{"code": "de"})
	require.NoError(t, err)
	require.Equal(t, "Deutsch", stored.Name)

	require.NoError(t, repo.Delete(ctx, &stored))
	_, err = repo.FirstBy(ctx, Filter{"code": "de"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func setupQueryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}
