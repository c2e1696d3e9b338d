package recommend

import (
	"context"
	"sort"

	"smart-restaurant-api/models"
	"smart-restaurant-api/repository"

	"github.com/shopspring/decimal"
)

// Limit is how many meals a recommendation returns.
const Limit = 5

// Catalog is the read side of repository.CatalogStore the recommender needs.
type Catalog interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListMeals(ctx context.Context) ([]models.Meal, error)
}

// OrderHistory is the read side of repository.Orders the recommender needs.
type OrderHistory interface {
	ListByCustomer(ctx context.Context, customerID uint) ([]models.EnrichedOrder, error)
}

type Recommendation struct {
	MealID      uint            `json:"meal_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	MealTime    string          `json:"meal_time"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Score       float64         `json:"score"`
}

type Recommender struct {
	catalog Catalog
	orders  OrderHistory
}

func New(catalog Catalog, orders OrderHistory) *Recommender {
	return &Recommender{catalog: catalog, orders: orders}
}

// For returns the best scoring meals for the customer, highest first.
// Unknown customers yield a *repository.NotFoundError.
func (r *Recommender) For(ctx context.Context, customerID uint) ([]Recommendation, error) {
	customers, err := r.catalog.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	var customer *models.Customer
	for i := range customers {
		if customers[i].ID == customerID {
			customer = &customers[i]
			break
		}
	}
	if customer == nil {
		return nil, &repository.NotFoundError{Entity: "customer", ID: customerID}
	}

	meals, err := r.catalog.ListMeals(ctx)
	if err != nil {
		return nil, err
	}
	history, err := r.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	profile := Profile{
		HealthCondition:  customer.HealthCondition,
		Age:              ageOrMedian(customer.Age, customers),
		FavoriteCategory: favoriteCategory(history, meals),
	}

	recs := make([]Recommendation, 0, len(meals))
	for _, m := range meals {
		recs = append(recs, Recommendation{
			MealID:      m.ID,
			Name:        m.Name,
			Price:       m.Price,
			MealTime:    m.MealTime,
			Description: m.Description,
			ImageURL:    m.ImageURL,
			Score: Score(profile, MealFacts{
				Description: m.Description,
				CategoryID:  m.CategoryID,
				MealTime:    m.MealTime,
				Price:       m.Price,
			}),
		})
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > Limit {
		recs = recs[:Limit]
	}
	return recs, nil
}

// ageOrMedian falls back to the median age of all customers that gave one.
func ageOrMedian(age *int, customers []models.Customer) *float64 {
	if age != nil {
		a := float64(*age)
		return &a
	}
	var ages []float64
	for _, c := range customers {
		if c.Age != nil {
			ages = append(ages, float64(*c.Age))
		}
	}
	if len(ages) == 0 {
		return nil
	}
	sort.Float64s(ages)
	mid := len(ages) / 2
	median := ages[mid]
	if len(ages)%2 == 0 {
		median = (ages[mid-1] + ages[mid]) / 2
	}
	return &median
}

// favoriteCategory is the most common category among the distinct meals the
// customer ordered. Ties go to the lowest category id.
func favoriteCategory(history []models.EnrichedOrder, meals []models.Meal) *uint {
	ordered := make(map[uint]bool, len(history))
	for _, o := range history {
		ordered[o.MealID] = true
	}
	counts := map[uint]int{}
	for _, m := range meals {
		if ordered[m.ID] && m.CategoryID != nil {
			counts[*m.CategoryID]++
		}
	}
	var best *uint
	bestCount := 0
	for id, n := range counts {
		if n > bestCount || (n == bestCount && id < *best) {
			id := id
			best, bestCount = &id, n
		}
	}
	return best
}
