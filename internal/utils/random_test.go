package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInstructorCode(t *testing.T) {
	assert.Equal(t, "ZW007", GenerateInstructorCode("张伟", 7))
	assert.Equal(t, "LJM012", GenerateInstructorCode("李建明", 12))
}

func TestGenerateRandomCatalog(t *testing.T) {
	opts := DefaultRandomCatalogOptions()

	catalog, err := GenerateRandomCatalog(rand.New(rand.NewSource(1)), opts)

	require.NoError(t, err)
	assert.Len(t, catalog.Instructors, opts.Instructors)
	assert.Len(t, catalog.Rooms, opts.Rooms)
	assert.Len(t, catalog.MeetingTimes, opts.Days*opts.SlotsPerDay)
	assert.Len(t, catalog.Courses, opts.Departments*opts.CoursesPerDept)
	assert.Len(t, catalog.Departments, opts.Departments)
	assert.Len(t, catalog.Sections, opts.Departments*opts.SectionsPerDept)
	assert.NoError(t, ValidateCatalog(catalog))

	for _, course := range catalog.Courses {
		assert.NotEmpty(t, course.InstructorIDs, course.Number)
	}
	for _, department := range catalog.Departments {
		assert.NotEmpty(t, department.CourseIDs, department.Name)
	}

	t.Run("same seed gives the same catalog", func(t *testing.T) {
		again, err := GenerateRandomCatalog(rand.New(rand.NewSource(1)), opts)

		require.NoError(t, err)
		assert.Equal(t, catalog, again)
	})

	t.Run("invalid options", func(t *testing.T) {
		invalid := []func(o *RandomCatalogOptions){
			func(o *RandomCatalogOptions) { o.Departments = 0 },
			func(o *RandomCatalogOptions) { o.Departments = 100 },
			func(o *RandomCatalogOptions) { o.CoursesPerDept = 0 },
			func(o *RandomCatalogOptions) { o.Instructors = 0 },
			func(o *RandomCatalogOptions) { o.Rooms = 0 },
			func(o *RandomCatalogOptions) { o.Days = 8 },
			func(o *RandomCatalogOptions) { o.SlotsPerDay = 6 },
			func(o *RandomCatalogOptions) { o.ClassesPerSection = -1 },
		}

		for _, modify := range invalid {
			o := DefaultRandomCatalogOptions()
			modify(&o)

			_, err := GenerateRandomCatalog(rand.New(rand.NewSource(1)), o)
			assert.Error(t, err)
		}
	})
}
