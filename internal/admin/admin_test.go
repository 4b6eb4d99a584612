package admin

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostModelAdmin_Defaults(t *testing.T) {
	m := PostModelAdmin()
	require.NoError(t, m.Validate())
	assert.Equal(t, []string{"title", "updated", "timestamp"}, m.ListDisplay)
	assert.Equal(t, []string{"updated"}, m.ListDisplayLinks)
	assert.Equal(t, []string{"updated"}, m.ListFilter)
	assert.Equal(t, []string{"title", "content"}, m.SearchFields)
	assert.True(t, m.HasFilter("updated"))
	assert.False(t, m.HasFilter("title"))
}

func TestModelAdmin_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ModelAdmin)
		wantErr string
	}{
		{"unknown display field", func(m *ModelAdmin) { m.ListDisplay = []string{"author"} }, "unknown field"},
		{"empty display", func(m *ModelAdmin) { m.ListDisplay = nil }, "must not be empty"},
		{"link outside display", func(m *ModelAdmin) { m.ListDisplayLinks = []string{"content"} }, "not in list_display"},
		{"unknown ordering", func(m *ModelAdmin) { m.Ordering = "-author" }, "unknown field"},
		{"bad page size", func(m *ModelAdmin) { m.ListPerPage = 0 }, "list_per_page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := PostModelAdmin()
			tt.mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistry_ApplyOverrides(t *testing.T) {
	r := DefaultRegistry()

	err := r.ApplyOverrides([]byte(`
models:
  post:
    list_display: [title, updated]
    list_per_page: 25
`))
	require.NoError(t, err)

	m, ok := r.Get("post")
	require.True(t, ok)
	assert.Equal(t, []string{"title", "updated"}, m.ListDisplay)
	assert.Equal(t, 25, m.ListPerPage)
	assert.Equal(t, []string{"title", "content"}, m.SearchFields, "unset options keep defaults")

	assert.Error(t, r.ApplyOverrides([]byte("models:\n  comment:\n    list_per_page: 5\n")))
	assert.Error(t, r.ApplyOverrides([]byte("models:\n  post:\n    list_display: [secret]\n")))

	m, _ = r.Get("post")
	assert.Equal(t, 25, m.ListPerPage, "a rejected override leaves the registry unchanged")
}

func TestRegistry_LoadOverrides(t *testing.T) {
	r := DefaultRegistry()
	require.NoError(t, r.LoadOverrides(""))

	path := filepath.Join(t.TempDir(), "admin.yml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  post:\n    ordering: title\n"), 0o600))
	require.NoError(t, r.LoadOverrides(path))

	m, _ := r.Get("post")
	assert.Equal(t, "title", m.Ordering)

	assert.Error(t, r.LoadOverrides(filepath.Join(t.TempDir(), "missing.yml")))
	assert.Len(t, r.All(), 1)
}

func TestDateFilterSince(t *testing.T) {
	now := time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		choice string
		want   time.Time
	}{
		{DateToday, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{DatePast7Days, time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)},
		{DateThisMonth, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{DateThisYear, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			since, err := DateFilterSince(tt.choice, now)
			require.NoError(t, err)
			require.NotNil(t, since)
			assert.True(t, tt.want.Equal(*since))
		})
	}

	since, err := DateFilterSince(DateAny, now)
	require.NoError(t, err)
	assert.Nil(t, since)

	_, err = DateFilterSince("last_decade", now)
	assert.Error(t, err)
}

func TestModelAdmin_ParseOrdering(t *testing.T) {
	m := PostModelAdmin()

	field, desc := m.ParseOrdering("")
	assert.Equal(t, "updated", field)
	assert.True(t, desc)

	field, desc = m.ParseOrdering("title")
	assert.Equal(t, "title", field)
	assert.False(t, desc)

	field, desc = m.ParseOrdering("-timestamp")
	assert.Equal(t, "timestamp", field)
	assert.True(t, desc)

	field, desc = m.ParseOrdering("password")
	assert.Equal(t, "updated", field)
	assert.True(t, desc)
}

func TestModelAdmin_BuildRow(t *testing.T) {
	m := PostModelAdmin()
	updated := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	row := m.BuildRow(42, map[string]interface{}{
		"title":     "Packing list",
		"content":   "not displayed",
		"updated":   updated,
		"timestamp": updated,
	})

	assert.Equal(t, "Packing list", row["title"])
	assert.Equal(t, updated, row["updated"])
	assert.NotContains(t, row, "content")
	assert.Equal(t, map[string]string{"updated": "/api/admin/posts/42"}, row["links"])
}

func TestModelAdmin_NewChangeList(t *testing.T) {
	cl := PostModelAdmin().NewChangeList()
	assert.Equal(t, "post", cl.Model)
	assert.Equal(t, DateFilterChoices, cl.Filters["updated"])
	assert.NotNil(t, cl.Results)
}
