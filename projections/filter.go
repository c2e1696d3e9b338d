package projections

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smart-restaurant-api/models"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Filter narrows a list of orders. Every set criterion must match.
// Date and clock comparisons use UTC.
type Filter struct {
	Date     *time.Time // calendar day
	TimeFrom string     // "HH:MM", inclusive
	TimeTo   string     // "HH:MM", inclusive
	Status   models.OrderStatus
	Query    string // case-insensitive substring
}

// ParseFilter builds a Filter from raw query values. Empty values are ignored.
func ParseFilter(date, from, to, status, query string) (Filter, error) {
	var f Filter
	if date = strings.TrimSpace(date); date != "" {
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return Filter{}, errors.New("date must be YYYY-MM-DD")
		}
		f.Date = &d
	}
	var err error
	if f.TimeFrom, err = parseClock(from); err != nil {
		return Filter{}, fmt.Errorf("from %w", err)
	}
	if f.TimeTo, err = parseClock(to); err != nil {
		return Filter{}, fmt.Errorf("to %w", err)
	}
	if status = strings.TrimSpace(status); status != "" {
		f.Status = models.OrderStatus(status)
		if !f.Status.Valid() {
			return Filter{}, fmt.Errorf("unknown status %q", status)
		}
	}
	f.Query = strings.TrimSpace(query)
	return f, nil
}

func parseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return "", errors.New("must be HH:MM")
	}
	return t.Format(clockLayout), nil
}

// Empty reports whether the filter matches everything.
func (f Filter) Empty() bool {
	return f.Date == nil && f.TimeFrom == "" && f.TimeTo == "" && f.Status == "" && f.Query == ""
}

// Match reports whether o satisfies every criterion.
func (f Filter) Match(o models.EnrichedOrder) bool {
	at := o.CreatedAt.UTC()
	if f.Date != nil && at.Format(dateLayout) != f.Date.Format(dateLayout) {
		return false
	}
	if f.TimeFrom != "" || f.TimeTo != "" {
		clock := at.Format(clockLayout)
		if f.TimeFrom != "" && clock < f.TimeFrom {
			return false
		}
		if f.TimeTo != "" && clock > f.TimeTo {
			return false
		}
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Query != "" && !strings.Contains(searchText(o), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

// Apply returns the orders that match, preserving their order.
func (f Filter) Apply(orders []models.EnrichedOrder) []models.EnrichedOrder {
	if f.Empty() {
		return orders
	}
	out := make([]models.EnrichedOrder, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

func searchText(o models.EnrichedOrder) string {
	return strings.ToLower(strings.Join([]string{
		strconv.FormatUint(uint64(o.ID), 10),
		o.CustomerName,
		o.MealName,
		string(o.Status),
		o.CustomerPhone,
		o.CustomerAddress,
	}, " "))
}
