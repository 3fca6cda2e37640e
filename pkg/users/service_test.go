package users

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-users/pkg/domain"
	"github.com/adfharrison1/go-users/pkg/storage/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := memory.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := NewService(store.Collection("users"))
	require.NoError(t, svc.EnsureTextIndex(context.Background()))
	return svc
}

func fixture() []domain.User {
	return []domain.User{
		{ID: "u1", Name: "Ann", Email: "ann@example.com", Profession: "Engineer", Age: 25, Country: "Spain"},
		{ID: "u2", Name: "Bob", Email: "bob@example.com", Profession: "Teacher", Age: 30, Country: "France"},
		{ID: "u3", Name: "Cleo", Email: "cleo@example.com", Profession: "Engineer", Age: 41, Country: "X"},
		{ID: "u4", Name: "Dan", Email: "dan@example.com", Profession: "Doctor", Age: 52, Country: "Italy"},
		{ID: "u5", Name: "Eve", Email: "eve@example.com", Profession: "Software Engineer", Age: 19, Country: "X"},
	}
}

func seed(t *testing.T, svc *Service, users []domain.User) {
	t.Helper()
	_, err := svc.InsertUsers(context.Background(), users)
	require.NoError(t, err)
}

func ids(users []domain.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	sort.Strings(out)
	return out
}

func TestInsertThenGetByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	in := domain.User{Name: "Ann", Email: "ann@example.com", Profession: "Engineer", Age: 25, Country: "Spain"}
	id, err := svc.InsertUser(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)

	in.ID = id
	assert.Equal(t, in, got)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, domain.IsStoreError(err))
}

func TestInsertUserValidation(t *testing.T) {
	spy := &spyCollection{}
	svc := NewService(spy)
	ctx := context.Background()

	_, err := svc.InsertUser(ctx, domain.User{Age: 3})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.InsertUsers(ctx, []domain.User{{Name: "ok"}, {Name: "bad", Age: -1}})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.InsertUsers(ctx, nil)
	assert.True(t, domain.IsValidation(err))

	assert.Empty(t, spy.Calls())
}

func TestTotalCountTracksInsertsAndDeletes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	total, err := svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	seed(t, svc, fixture())
	total, err = svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	deleted, err := svc.DeleteWhereAgeGreaterThan(ctx, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = svc.DeleteByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = svc.DeleteByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	total, err = svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestCountByCountrySumsToTotal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	counts, err := svc.CountByCountry(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CountByKey{"Spain": 1, "France": 1, "X": 2, "Italy": 1}, counts)

	var sum int64
	for _, n := range counts {
		sum += n
	}
	total, err := svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, total, sum)
}

func TestAverageAgeByProfession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	averages, err := svc.AverageAgeByProfession(ctx)
	require.NoError(t, err)
	assert.NotNil(t, averages)
	assert.Empty(t, averages)

	seed(t, svc, fixture())
	averages, err = svc.AverageAgeByProfession(ctx)
	require.NoError(t, err)
	assert.Len(t, averages, 4)
	assert.InDelta(t, 33.0, averages["Engineer"], 1e-9)
	assert.InDelta(t, 52.0, averages["Doctor"], 1e-9)
}

func TestDashboard(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), dash.TotalUsers)
	assert.Equal(t, int64(2), dash.CountryWithUsersCount["X"])
	assert.InDelta(t, 30.0, dash.ProfessionWithAvgAge["Teacher"], 1e-9)
}

func TestDashboardPropagatesStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(&spyCollection{err: boom})

	_, err := svc.Dashboard(context.Background())
	assert.True(t, domain.IsStoreError(err))
	assert.ErrorIs(t, err, boom)
}

func TestFilterUsersIsUnionOfAgeAndCountry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	cur, err := svc.FilterUsers(ctx, 30, "X")
	require.NoError(t, err)
	got, err := cur.All(ctx)
	require.NoError(t, err)

	// u1, u2 by age; u3 by country; u5 by both
	assert.Equal(t, []string{"u1", "u2", "u3", "u5"}, ids(got))
}

func TestFilterUsersPartialConsumption(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	cur, err := svc.FilterUsers(ctx, 100, "")
	require.NoError(t, err)
	require.True(t, cur.Next(ctx))
	assert.Equal(t, "u1", cur.User().ID)
	require.NoError(t, cur.Close(ctx))
	assert.False(t, cur.Next(ctx))
	assert.NoError(t, cur.Err())
}

func TestListAllPages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var users []domain.User
	for i := 0; i < 25; i++ {
		// inserted out of age order
		age := (i*7)%25 + 20
		users = append(users, domain.User{Name: fmt.Sprintf("user-%02d", age), Email: "e", Profession: "p", Age: age, Country: "c"})
	}
	seed(t, svc, users)

	page1, err := svc.ListAll(ctx, 1)
	require.NoError(t, err)
	page2, err := svc.ListAll(ctx, 2)
	require.NoError(t, err)
	page3, err := svc.ListAll(ctx, 3)
	require.NoError(t, err)
	page4, err := svc.ListAll(ctx, 4)
	require.NoError(t, err)

	require.Len(t, page1, 10)
	require.Len(t, page2, 10)
	require.Len(t, page3, 5)
	assert.NotNil(t, page4)
	assert.Empty(t, page4)

	all := append(append(page1, page2...), page3...)
	for i, s := range all {
		assert.Equal(t, 20+i, s.Age)
		assert.Equal(t, fmt.Sprintf("user-%02d", s.Age), s.Name)
	}
}

func TestListAllClampsPage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	first, err := svc.ListAll(ctx, 1)
	require.NoError(t, err)

	for _, page := range []int{0, -3} {
		got, err := svc.ListAll(ctx, page)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
	assert.Equal(t, domain.UserSummary{Name: "Eve", Age: 19}, first[0])
}

func TestSearchUsers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	got, err := svc.SearchUsers(ctx, "engineer", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3", "u5"}, ids(got))

	got, err = svc.SearchUsers(ctx, "engineer", 2)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.SearchUsers(ctx, "FRANCE", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Name)

	_, err = svc.SearchUsers(ctx, "", 1)
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateUserChangesOnlyGivenFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	ok, err := svc.UpdateUser(ctx, "u2", domain.UserUpdate{Age: domain.Ptr(25)})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.GetByID(ctx, "u2")
	require.NoError(t, err)
	want := fixture()[1]
	want.Age = 25
	assert.Equal(t, want, got)
}

func TestUpdateUserZeroValuesAreWritten(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	_, err := svc.UpdateUser(ctx, "u2", domain.UserUpdate{Age: domain.Ptr(0), Email: domain.Ptr("")})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Age)
	assert.Equal(t, "", got.Email)
	assert.Equal(t, "Bob", got.Name)
}

func TestUpdateUserUpserts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ok, err := svc.UpdateUser(ctx, "fresh", domain.UserUpdate{Name: domain.Ptr("Nia"), Age: domain.Ptr(40)})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.GetByID(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "Nia", got.Name)
	assert.Equal(t, 40, got.Age)
}

func TestUpdateUserRejectedBeforeStore(t *testing.T) {
	spy := &spyCollection{}
	svc := NewService(spy)
	ctx := context.Background()

	_, err := svc.UpdateUser(ctx, "u1", domain.UserUpdate{})
	assert.ErrorIs(t, err, domain.ErrEmptyUpdate)

	_, err = svc.UpdateUser(ctx, "", domain.UserUpdate{Age: domain.Ptr(3)})
	assert.ErrorIs(t, err, domain.ErrMissingIdentifier)

	_, err = svc.UpdateUser(ctx, "u1", domain.UserUpdate{Name: domain.Ptr("")})
	assert.True(t, domain.IsValidation(err))

	assert.Empty(t, spy.Calls())
}

func TestReplaceByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	replacement := domain.User{ID: "u4", Name: "Dana", Email: "dana@example.com", Profession: "Surgeon", Age: 53, Country: "Italy"}
	ok, err := svc.ReplaceByID(ctx, replacement)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.GetByID(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, replacement, got)

	ok, err = svc.ReplaceByID(ctx, domain.User{ID: "ghost", Name: "Ghost"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReplaceByIDMissingIdentifierMakesNoStoreCall(t *testing.T) {
	spy := &spyCollection{}
	svc := NewService(spy)

	ok, err := svc.ReplaceByID(context.Background(), domain.User{Name: "No ID", Age: 30})
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrMissingIdentifier)
	assert.Empty(t, spy.Calls())
}

func TestUpdateManyNameWhereAgeGreaterThan(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	ok, err := svc.UpdateManyNameWhereAgeGreaterThan(ctx, 40, "Senior")
	require.NoError(t, err)
	assert.True(t, ok)

	for id, want := range map[string]string{"u3": "Senior", "u4": "Senior", "u2": "Bob"} {
		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Name, id)
	}

	_, err = svc.UpdateManyNameWhereAgeGreaterThan(ctx, 40, "")
	assert.True(t, domain.IsValidation(err))
}

func TestExecuteBulkTally(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	tally, err := svc.ExecuteBulk(ctx, []domain.BulkOp{
		domain.InsertOp(domain.User{ID: "u6", Name: "Fay", Age: 33, Country: "Chile"}),
		domain.UpdateOp("u1", domain.UserUpdate{Country: domain.Ptr("Portugal")}),
		domain.DeleteOp("u2"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), tally.Inserted)
	assert.Equal(t, int64(1), tally.Updated)
	assert.Equal(t, int64(1), tally.Deleted)

	got, err := svc.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Portugal", got.Country)

	_, err = svc.GetByID(ctx, "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecuteBulkSeesEarlierOperations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tally, err := svc.ExecuteBulk(ctx, []domain.BulkOp{
		domain.InsertOp(domain.User{ID: "n1", Name: "New", Age: 70}),
		domain.ReplaceOp("n1", domain.User{Name: "Newer", Age: 71}),
		domain.DeleteWhereAgeGreaterThanOp(70),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BulkTally{Inserted: 1, Updated: 1, Deleted: 1, Matched: 1}, tally)

	total, err := svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestExecuteBulkPartialFailure(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seed(t, svc, fixture())

	tally, err := svc.ExecuteBulk(ctx, []domain.BulkOp{
		domain.DeleteOp("u5"),
		domain.InsertOp(domain.User{ID: "u1", Name: "Clash"}),
		domain.DeleteOp("u4"),
	})
	require.Error(t, err)
	assert.True(t, domain.IsStoreError(err))
	assert.Equal(t, int64(1), tally.Deleted)

	total, err := svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestExecuteBulkValidatesBeforeStore(t *testing.T) {
	tests := []struct {
		name  string
		ops   []domain.BulkOp
		check func(t *testing.T, err error)
	}{
		{"empty set", nil, func(t *testing.T, err error) {
			assert.True(t, domain.IsValidation(err))
		}},
		{"replace without id", []domain.BulkOp{domain.ReplaceOp("", domain.User{Name: "x"})}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, domain.ErrMissingIdentifier)
		}},
		{"empty update", []domain.BulkOp{domain.UpdateOp("u1", domain.UserUpdate{})}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, domain.ErrEmptyUpdate)
		}},
		{"delete without target", []domain.BulkOp{{Kind: domain.BulkDelete}}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, domain.ErrMissingIdentifier)
		}},
		{"invalid insert after valid op", []domain.BulkOp{domain.DeleteOp("u1"), domain.InsertOp(domain.User{})}, func(t *testing.T, err error) {
			assert.True(t, domain.IsValidation(err))
		}},
		{"unknown kind", []domain.BulkOp{{Kind: 42}}, func(t *testing.T, err error) {
			assert.True(t, domain.IsValidation(err))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyCollection{}
			_, err := NewService(spy).ExecuteBulk(context.Background(), tt.ops)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, spy.Calls())
		})
	}
}

func TestStoreErrorsAreWrappedUnmodified(t *testing.T) {
	boom := errors.New("write conflict")
	spy := &spyCollection{err: boom}
	svc := NewService(spy)
	ctx := context.Background()

	_, err := svc.DeleteByID(ctx, "u1")
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Same(t, boom, storeErr.Err)

	_, err = svc.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, boom)

	_, err = svc.ListAll(ctx, 1)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"DeleteOne", "FindOne", "Find"}, spy.Calls())
}

func TestSeedFromFile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "users.json")
	data := `[
		{"name": "Ann", "email": "ann@example.com", "profession": "Engineer", "age": 25, "country": "Spain"},
		{"id": "fixed", "name": "Bob", "email": "bob@example.com", "profession": "Teacher", "age": 30, "country": "France"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	n, err := svc.SeedFromFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	bob, err := svc.GetByID(ctx, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "Teacher", bob.Profession)

	_, err = svc.SeedFromFile(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = svc.SeedFromFile(ctx, bad)
	assert.True(t, domain.IsValidation(err))
}
