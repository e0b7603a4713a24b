package search

import (
	"strings"

	"autix_backend/models"
)

// CarRequestFilter narrows the buyer "wanted" listings dealers browse.
type CarRequestFilter struct {
	Make   string
	Model  string
	Year   *int
	Price  *float64
	Status models.CarRequestStatus
	Page   Page
}

func ParseCarRequestFilter(v Values) (CarRequestFilter, []string) {
	var errs []string
	f := CarRequestFilter{
		Make:  strings.TrimSpace(v.Get("make")),
		Model: strings.TrimSpace(v.Get("model")),
		Year:  optionalInt(v, "year", &errs),
		Price: optionalFloat(v, "price", &errs),
	}
	if s := strings.TrimSpace(v.Get("status")); s != "" {
		f.Status = models.CarRequestStatus(strings.ToLower(s))
		if !f.Status.Valid() {
			errs = append(errs, "status must be one of: active, fulfilled, cancelled")
		}
	}
	f.Page = ParsePage(v, DefaultLimit, &errs)
	return f, errs
}

// Predicates matches requests a car with Year/Price would satisfy: an open
// bound on the request side always matches.
func (f CarRequestFilter) Predicates() []Predicate {
	var preds []Predicate
	if f.Make != "" {
		preds = append(preds, ILike("car_requests.make", f.Make))
	}
	if f.Model != "" {
		preds = append(preds, ILike("car_requests.model", f.Model))
	}
	if f.Year != nil {
		preds = append(preds,
			Predicate{SQL: "(car_requests.year_from IS NULL OR car_requests.year_from <= ?)", Args: []any{*f.Year}},
			Predicate{SQL: "(car_requests.year_to IS NULL OR car_requests.year_to >= ?)", Args: []any{*f.Year}},
		)
	}
	if f.Price != nil {
		preds = append(preds, Predicate{SQL: "(car_requests.price_max IS NULL OR car_requests.price_max >= ?)", Args: []any{*f.Price}})
	}
	if f.Status != "" {
		preds = append(preds, Eq("car_requests.status", f.Status))
	}
	return preds
}

// InquiryFilter narrows a party's inquiry inbox or outbox.
type InquiryFilter struct {
	Status models.InquiryStatus
	CarID  *uint
	Page   Page
}

func ParseInquiryFilter(v Values) (InquiryFilter, []string) {
	var errs []string
	f := InquiryFilter{CarID: optionalUint(v, "carId", &errs)}
	if s := strings.TrimSpace(v.Get("status")); s != "" {
		f.Status = models.InquiryStatus(strings.ToLower(s))
		if !f.Status.Valid() {
			errs = append(errs, "status must be one of: new, responded, closed")
		}
	}
	f.Page = ParsePage(v, 20, &errs)
	return f, errs
}

func (f InquiryFilter) Predicates() []Predicate {
	var preds []Predicate
	if f.Status != "" {
		preds = append(preds, Eq("inquiries.status", f.Status))
	}
	if f.CarID != nil {
		preds = append(preds, Eq("inquiries.car_id", *f.CarID))
	}
	return preds
}

// DealerCarFilter is the dealer's own inventory view.
type DealerCarFilter struct {
	Status models.CarStatus
	Page   Page
}

func ParseDealerCarFilter(v Values) (DealerCarFilter, []string) {
	var errs []string
	var f DealerCarFilter
	if s := strings.TrimSpace(v.Get("status")); s != "" {
		f.Status = models.CarStatus(strings.ToLower(s))
		if !f.Status.Valid() {
			errs = append(errs, "status must be one of: active, sold, pending, deleted")
		}
	}
	f.Page = ParsePage(v, 20, &errs)
	return f, errs
}
