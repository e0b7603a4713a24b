package search

import (
	"strings"

	"autix_backend/models"
)

var carSortColumns = map[string]string{
	"created_at": "cars.created_at",
	"price":      "cars.price",
	"year":       "cars.year",
	"mileage":    "cars.mileage",
}

// CarFilter holds every optional car search parameter. Zero values and nil
// pointers mean "not supplied".
type CarFilter struct {
	Make         string
	Model        string
	YearFrom     *int
	YearTo       *int
	PriceFrom    *float64
	PriceTo      *float64
	MileageMax   *int
	FuelType     string
	Transmission string
	City         string
	Search       string
	DealerID     *uint
	FeaturedOnly bool

	SortBy    string
	SortOrder string

	Page Page
}

// ParseCarFilter reads the car search query string. The returned messages
// are suitable for a 400 response as-is.
func ParseCarFilter(v Values) (CarFilter, []string) {
	var errs []string
	f := CarFilter{
		Make:         strings.TrimSpace(v.Get("make")),
		Model:        strings.TrimSpace(v.Get("model")),
		City:         strings.TrimSpace(v.Get("city")),
		Search:       strings.TrimSpace(v.Get("search")),
		YearFrom:     optionalInt(v, "yearFrom", &errs),
		YearTo:       optionalInt(v, "yearTo", &errs),
		PriceFrom:    optionalFloat(v, "priceFrom", &errs),
		PriceTo:      optionalFloat(v, "priceTo", &errs),
		MileageMax:   optionalInt(v, "mileageMax", &errs),
		FuelType:     oneOf(v, "fuelType", models.FuelTypes, &errs),
		Transmission: oneOf(v, "transmission", models.Transmissions, &errs),
		DealerID:     optionalUint(v, "dealerId", &errs),
		SortBy:       "created_at",
		SortOrder:    "desc",
	}

	switch strings.ToLower(strings.TrimSpace(v.Get("featured"))) {
	case "", "false", "0":
	case "true", "1":
		f.FeaturedOnly = true
	default:
		errs = append(errs, "featured must be true or false")
	}

	if s := strings.TrimSpace(v.Get("sortBy")); s != "" {
		if _, ok := carSortColumns[s]; ok {
			f.SortBy = s
		} else {
			errs = append(errs, "sortBy must be one of: created_at, price, year, mileage")
		}
	}
	if s := strings.ToLower(strings.TrimSpace(v.Get("sortOrder"))); s != "" {
		if s == "asc" || s == "desc" {
			f.SortOrder = s
		} else {
			errs = append(errs, "sortOrder must be asc or desc")
		}
	}

	if f.YearFrom != nil && f.YearTo != nil && *f.YearFrom > *f.YearTo {
		errs = append(errs, "yearFrom cannot be greater than yearTo")
	}
	if f.PriceFrom != nil && f.PriceTo != nil && *f.PriceFrom > *f.PriceTo {
		errs = append(errs, "priceFrom cannot be greater than priceTo")
	}

	f.Page = ParsePage(v, DefaultLimit, &errs)
	return f, errs
}

// Predicates returns one predicate per supplied filter, in a stable order.
// Visibility (status/availability) is not a filter concern; the repository
// scopes add it.
func (f CarFilter) Predicates() []Predicate {
	var preds []Predicate
	if f.Make != "" {
		preds = append(preds, ILike("cars.make", f.Make))
	}
	if f.Model != "" {
		preds = append(preds, ILike("cars.model", f.Model))
	}
	if f.YearFrom != nil {
		preds = append(preds, Gte("cars.year", *f.YearFrom))
	}
	if f.YearTo != nil {
		preds = append(preds, Lte("cars.year", *f.YearTo))
	}
	if f.PriceFrom != nil {
		preds = append(preds, Gte("cars.price", *f.PriceFrom))
	}
	if f.PriceTo != nil {
		preds = append(preds, Lte("cars.price", *f.PriceTo))
	}
	if f.MileageMax != nil {
		preds = append(preds, Lte("cars.mileage", *f.MileageMax))
	}
	if f.FuelType != "" {
		preds = append(preds, Eq("cars.fuel_type", f.FuelType))
	}
	if f.Transmission != "" {
		preds = append(preds, Eq("cars.transmission", f.Transmission))
	}
	if f.City != "" {
		preds = append(preds, ILike("cars.city", f.City))
	}
	if f.Search != "" {
		preds = append(preds, AnyILike(f.Search, "cars.make", "cars.model", "cars.description"))
	}
	if f.DealerID != nil {
		preds = append(preds, Eq("cars.dealer_id", *f.DealerID))
	}
	if f.FeaturedOnly {
		preds = append(preds, Eq("cars.is_featured", true))
	}
	return preds
}

// OrderBy renders the whitelisted sort clause.
func (f CarFilter) OrderBy() string {
	col, ok := carSortColumns[f.SortBy]
	if !ok {
		col = carSortColumns["created_at"]
	}
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir + ", cars.id " + dir
}
