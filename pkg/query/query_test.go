package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/adfharrison1/go-users/pkg/domain"
)

func TestByAgeOrCountry(t *testing.T) {
	got := ByAgeOrCountry(30, "India")

	want := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "age", Value: bson.D{{Key: "$lte", Value: 30}}}},
		bson.D{{Key: "country", Value: "India"}},
	}}}
	assert.Equal(t, want, got)
}

func TestByAge_UsesComparator(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "age", Value: bson.D{{Key: "$gt", Value: 40}}}}, ByAge(40, GreaterThan))
	assert.Equal(t, bson.D{{Key: "age", Value: bson.D{{Key: "$lte", Value: 40}}}}, ByAge(40, LessOrEqual))
}

func TestSparseUpdate(t *testing.T) {
	tests := []struct {
		name    string
		update  domain.UserUpdate
		want    bson.D
		wantErr error
	}{
		{
			name:   "only age",
			update: domain.UserUpdate{Age: domain.Ptr(25)},
			want:   bson.D{{Key: "$set", Value: bson.D{{Key: "age", Value: 25}}}},
		},
		{
			name:   "explicit zero age is kept",
			update: domain.UserUpdate{Age: domain.Ptr(0)},
			want:   bson.D{{Key: "$set", Value: bson.D{{Key: "age", Value: 0}}}},
		},
		{
			name:   "several fields keep declaration order",
			update: domain.UserUpdate{Country: domain.Ptr("Chile"), Name: domain.Ptr("Dana"), Email: domain.Ptr("")},
			want: bson.D{{Key: "$set", Value: bson.D{
				{Key: "name", Value: "Dana"},
				{Key: "email", Value: ""},
				{Key: "country", Value: "Chile"},
			}}},
		},
		{
			name:    "nothing present",
			update:  domain.UserUpdate{},
			wantErr: domain.ErrEmptyUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SparseUpdate(tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		page      int
		wantSkip  int64
		wantLimit int64
	}{
		{page: 1, wantSkip: 0, wantLimit: 10},
		{page: 2, wantSkip: 10, wantLimit: 10},
		{page: 5, wantSkip: 40, wantLimit: 10},
		{page: 0, wantSkip: 0, wantLimit: 10},
		{page: -3, wantSkip: 0, wantLimit: 10},
	}

	for _, tt := range tests {
		skip, limit := Page(tt.page, PageSize)
		assert.Equal(t, tt.wantSkip, skip, "page %d", tt.page)
		assert.Equal(t, tt.wantLimit, limit, "page %d", tt.page)
	}
}

func TestPipelines(t *testing.T) {
	assert.Equal(t, []bson.D{{{Key: "$count", Value: "total"}}}, CountAll())

	group := CountBy(FieldCountry)[0][0]
	assert.Equal(t, "$group", group.Key)
	assert.Equal(t, bson.D{
		{Key: "_id", Value: "$country"},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}, group.Value)

	avg := AverageBy(FieldProfession, FieldAge)[0][0]
	assert.Equal(t, bson.D{
		{Key: "_id", Value: "$profession"},
		{Key: "average", Value: bson.D{{Key: "$avg", Value: "$age"}}},
	}, avg.Value)
}

func TestInclude(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: 0}, {Key: "name", Value: 1}, {Key: "age", Value: 1}}, Include(FieldName, FieldAge))
}
