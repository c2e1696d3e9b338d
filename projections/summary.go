package projections

import (
	"sort"

	"smart-restaurant-api/models"
	"smart-restaurant-api/statemachine"

	"github.com/shopspring/decimal"
)

// RankBy selects the measure top-N lists are ordered by.
type RankBy string

const (
	RankByTotal    RankBy = "total"
	RankByQuantity RankBy = "quantity"
)

func (r RankBy) Valid() bool { return r == RankByTotal || r == RankByQuantity }

// DefaultTopN matches the size of the dashboard's top-customers chart.
const DefaultTopN = 5

// Ranked is one entry of a top-N list.
type Ranked struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Total    decimal.Decimal `json:"total"`
	Quantity int             `json:"quantity"`
	Orders   int             `json:"orders"`
}

// DaySales is the revenue of one UTC calendar day.
type DaySales struct {
	Date   string          `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Orders int             `json:"orders"`
}

type Summary struct {
	StatusCounts map[models.OrderStatus]int `json:"status_counts"`
	OrderCount   int                        `json:"order_count"`
	ActiveCount  int                        `json:"active_count"`
	Revenue      decimal.Decimal            `json:"revenue"`
	TopCustomers []Ranked                   `json:"top_customers"`
	TopMeals     []Ranked                   `json:"top_meals"`
	DailySales   []DaySales                 `json:"daily_sales"`
}

// Summarize aggregates orders. Every status has a bucket even when its count
// is zero, and null totals are left out of every sum.
func Summarize(orders []models.EnrichedOrder, topN int, rankBy RankBy) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if !rankBy.Valid() {
		rankBy = RankByTotal
	}

	s := Summary{
		StatusCounts: make(map[models.OrderStatus]int, len(models.AllStatuses)),
		Revenue:      decimal.Zero,
	}
	for _, st := range models.AllStatuses {
		s.StatusCounts[st] = 0
	}

	customers := newTally()
	meals := newTally()
	days := map[string]*DaySales{}
	var dayKeys []string

	for _, o := range orders {
		s.OrderCount++
		s.StatusCounts[o.Status]++
		if !statemachine.IsFinal(o.Status) {
			s.ActiveCount++
		}

		total := decimal.Zero
		if o.Total.Valid {
			total = o.Total.Decimal
			s.Revenue = s.Revenue.Add(total)
		}
		customers.add(o.CustomerID, o.CustomerName, total, o.Quantity)
		meals.add(o.MealID, o.MealName, total, o.Quantity)

		key := o.CreatedAt.UTC().Format(dateLayout)
		day, ok := days[key]
		if !ok {
			day = &DaySales{Date: key, Total: decimal.Zero}
			days[key] = day
			dayKeys = append(dayKeys, key)
		}
		day.Orders++
		day.Total = day.Total.Add(total)
	}

	s.TopCustomers = customers.top(topN, rankBy)
	s.TopMeals = meals.top(topN, rankBy)

	sort.Strings(dayKeys)
	s.DailySales = make([]DaySales, 0, len(dayKeys))
	for _, k := range dayKeys {
		s.DailySales = append(s.DailySales, *days[k])
	}
	return s
}

// tally accumulates per-id totals in first-seen order.
type tally struct {
	index   map[uint]int
	entries []Ranked
}

func newTally() *tally {
	return &tally{index: map[uint]int{}}
}

func (t *tally) add(id uint, name string, total decimal.Decimal, quantity int) {
	i, ok := t.index[id]
	if !ok {
		i = len(t.entries)
		t.index[id] = i
		t.entries = append(t.entries, Ranked{ID: id, Name: name, Total: decimal.Zero})
	}
	e := &t.entries[i]
	e.Total = e.Total.Add(total)
	e.Quantity += quantity
	e.Orders++
}

// top orders by the chosen measure, then by total, then by first appearance.
func (t *tally) top(n int, by RankBy) []Ranked {
	ranked := append([]Ranked(nil), t.entries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if by == RankByQuantity && a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Total.GreaterThan(b.Total)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
