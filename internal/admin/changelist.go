package admin

import (
	"fmt"
	"strings"
	"time"
)

// Date filter choices for date fields, as offered in the changelist sidebar.
const (
	DateAny       = ""
	DateToday     = "today"
	DatePast7Days = "past_7_days"
	DateThisMonth = "this_month"
	DateThisYear  = "this_year"
)

// DateFilterChoices lists the accepted date filter values in display order.
var DateFilterChoices = []string{DateToday, DatePast7Days, DateThisMonth, DateThisYear}

// DateFilterSince returns the lower bound selected by a date filter choice,
// or nil for DateAny. Bounds are computed in now's location.
func DateFilterSince(choice string, now time.Time) (*time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var since time.Time
	switch choice {
	case DateAny:
		return nil, nil
	case DateToday:
		since = today
	case DatePast7Days:
		since = today.AddDate(0, 0, -7)
	case DateThisMonth:
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case DateThisYear:
		since = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return nil, fmt.Errorf("unknown date filter %q", choice)
	}
	return &since, nil
}

// ParseOrdering splits "-field" into ("field", true). An empty or unknown field
// falls back to the model's default ordering.
func (m ModelAdmin) ParseOrdering(o string) (field string, desc bool) {
	if o == "" {
		o = m.Ordering
	}
	desc = strings.HasPrefix(o, "-")
	field = strings.TrimPrefix(o, "-")
	for _, f := range m.Fields {
		if f == field {
			return field, desc
		}
	}
	field = strings.TrimPrefix(m.Ordering, "-")
	return field, strings.HasPrefix(m.Ordering, "-")
}

// Row is one changelist entry: the list_display values plus a links map.
type Row map[string]interface{}

// BuildRow projects values onto list_display and links the list_display_links
// columns to the object's change view.
func (m ModelAdmin) BuildRow(id uint, values map[string]interface{}) Row {
	row := make(Row, len(m.ListDisplay)+2)
	row["id"] = id
	for _, f := range m.ListDisplay {
		row[f] = values[f]
	}
	if len(m.ListDisplayLinks) > 0 {
		links := make(map[string]string, len(m.ListDisplayLinks))
		url := fmt.Sprintf("%s/%d", m.Path, id)
		for _, f := range m.ListDisplayLinks {
			links[f] = url
		}
		row["links"] = links
	}
	return row
}

// ChangeList is a page of rows rendered for one ModelAdmin.
type ChangeList struct {
	Model       string              `json:"model"`
	ListDisplay []string            `json:"list_display"`
	Filters     map[string][]string `json:"filters"`
	Search      string              `json:"q,omitempty"`
	Ordering    string              `json:"ordering"`
	Count       int64               `json:"count"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
	Results     []Row               `json:"results"`
}

// NewChangeList starts a ChangeList for m with its filter choices filled in.
func (m ModelAdmin) NewChangeList() *ChangeList {
	filters := make(map[string][]string, len(m.ListFilter))
	for _, f := range m.ListFilter {
		filters[f] = DateFilterChoices
	}
	return &ChangeList{
		Model:       m.Name,
		ListDisplay: m.ListDisplay,
		Filters:     filters,
		Results:     []Row{},
	}
}
