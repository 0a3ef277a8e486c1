package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func TestEnumerateClasses(t *testing.T) {
	t.Run("cycles through department courses", func(t *testing.T) {
		catalog := solvableCatalog()
		catalog.Sections = []domain.Section{{ID: 30, Code: "CS-1A", DepartmentID: 20, ClassesPerWeek: 5}}

		classes, err := EnumerateClasses(catalog)

		require.NoError(t, err)
		assert.Equal(t, []ClassSpec{
			{SectionID: 30, CourseID: 10},
			{SectionID: 30, CourseID: 11},
			{SectionID: 30, CourseID: 12},
			{SectionID: 30, CourseID: 10},
			{SectionID: 30, CourseID: 11},
		}, classes)
	})

	t.Run("fewer classes than courses", func(t *testing.T) {
		catalog := solvableCatalog()
		catalog.Sections = []domain.Section{{ID: 32, Code: "MA-1A", DepartmentID: 21, ClassesPerWeek: 1}}

		classes, err := EnumerateClasses(catalog)

		require.NoError(t, err)
		assert.Equal(t, []ClassSpec{{SectionID: 32, CourseID: 13}}, classes)
	})

	t.Run("keeps section order and is deterministic", func(t *testing.T) {
		catalog := solvableCatalog()

		first, err := EnumerateClasses(catalog)
		require.NoError(t, err)
		second, err := EnumerateClasses(catalog)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, first, 9)
		assert.Equal(t, int64(30), first[0].SectionID)
		assert.Equal(t, int64(31), first[3].SectionID)
		assert.Equal(t, int64(32), first[6].SectionID)
	})

	t.Run("section without classes", func(t *testing.T) {
		catalog := singleClassCatalog()
		catalog.Sections[0].ClassesPerWeek = 0

		classes, err := EnumerateClasses(catalog)

		require.NoError(t, err)
		assert.Empty(t, classes)
	})
}

func TestEnumerateClassesErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *domain.Catalog)
		want   error
	}{
		{
			name:   "department without courses",
			modify: func(c *domain.Catalog) { c.Departments[0].CourseIDs = nil },
			want:   ErrEmptyCatalog,
		},
		{
			name:   "course without qualified instructors",
			modify: func(c *domain.Catalog) { c.Courses[0].InstructorIDs = []int64{} },
			want:   ErrEmptyCatalog,
		},
		{
			name:   "unknown department",
			modify: func(c *domain.Catalog) { c.Sections[0].DepartmentID = 999 },
			want:   ErrInvalidCatalog,
		},
		{
			name:   "unknown course in department",
			modify: func(c *domain.Catalog) { c.Departments[0].CourseIDs = append(c.Departments[0].CourseIDs, 999) },
			want:   ErrInvalidCatalog,
		},
		{
			name:   "negative classes per week",
			modify: func(c *domain.Catalog) { c.Sections[0].ClassesPerWeek = -1 },
			want:   ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := singleClassCatalog()
			tt.modify(catalog)

			classes, err := EnumerateClasses(catalog)

			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, classes)
		})
	}
}
