package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)
	assert.Greater(t, catalog.Len(), 0)

	all, err := catalog.List("")
	require.NoError(t, err)
	assert.Len(t, all, catalog.Len())

	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Year, all[i].Year, "projects must be newest first")
	}
}

func TestList_FiltersByCategory(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	for _, category := range Categories {
		t.Run(category, func(t *testing.T) {
			projects, err := catalog.List(category)
			require.NoError(t, err)
			for _, p := range projects {
				assert.Equal(t, category, p.Category)
			}
		})
	}

	upper, err := catalog.List(" ML ")
	require.NoError(t, err)
	assert.NotEmpty(t, upper)

	_, err = catalog.List("blockchain")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestList_ReturnsCopy(t *testing.T) {
	catalog, err := Parse([]byte(`
projects:
  - {id: a, title: A, category: website, year: 2024}
`))
	require.NoError(t, err)

	list, err := catalog.List(CategoryAll)
	require.NoError(t, err)
	list[0].Title = "changed"

	again, err := catalog.List(CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Title)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "projects: ["},
		{"missing id", "projects:\n  - {title: A, category: website}"},
		{"duplicate id", "projects:\n  - {id: a, title: A, category: website}\n  - {id: a, title: B, category: mobile}"},
		{"unknown category", "projects:\n  - {id: a, title: A, category: games}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
