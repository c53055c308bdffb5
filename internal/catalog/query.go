package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/quangdle/anistream/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25

	// filter params set to this sentinel are ignored
	filterAll = "All"
)

// QueryParams are the listing endpoint's filter/sort/pagination inputs.
type QueryParams struct {
	Search  string
	GenreID int
	Year    string
	Status  string
	Type    string
	Order   string
	Page    int
	Limit   int
}

// ParamsFromQuery parses listing params from a URL query string. Values
// that fail to parse are treated as absent, never as an error.
func ParamsFromQuery(q url.Values) QueryParams {
	p := QueryParams{
		Search: q.Get("search"),
		Year:   q.Get("year"),
		Status: q.Get("status"),
		Type:   q.Get("type"),
		Order:  q.Get("order"),
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}
	if v, err := strconv.Atoi(q.Get("genreId")); err == nil {
		p.GenreID = v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 1 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	return p
}

type Pagination struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type Page struct {
	Data       []models.Anime `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// Query runs the filter/sort/paginate pipeline over a catalog snapshot.
// Stages, in fixed order: title search filter, relevance sort (default
// ordering only), attribute filters, explicit ordering, pagination.
// Total is counted before slicing, so an out-of-range page yields empty
// data with correct metadata.
func Query(items []models.Anime, p QueryParams) Page {
	filtered := make([]models.Anime, len(items))
	copy(filtered, items)

	search := strings.ToLower(strings.TrimSpace(p.Search))
	if search != "" {
		filtered = filterItems(filtered, func(a models.Anime) bool {
			return strings.Contains(strings.ToLower(a.Title), search)
		})
		rankByRelevance(filtered, search)
	}

	if p.GenreID != 0 {
		filtered = filterItems(filtered, func(a models.Anime) bool {
			for _, g := range a.Genres {
				if g.ID == p.GenreID {
					return true
				}
			}
			return false
		})
	}
	if p.Year != "" && p.Year != filterAll {
		if year, err := strconv.Atoi(p.Year); err == nil {
			filtered = filterItems(filtered, func(a models.Anime) bool {
				return a.ReleaseYear == year
			})
		}
	}
	if p.Status != "" && p.Status != filterAll {
		filtered = filterItems(filtered, func(a models.Anime) bool {
			return string(a.Status) == p.Status
		})
	}
	if p.Type != "" && p.Type != filterAll {
		filtered = filterItems(filtered, func(a models.Anime) bool {
			return string(a.Type) == p.Type
		})
	}

	total := len(filtered)
	applyOrder(filtered, p.Order)

	page, limit := p.Page, p.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	totalPages := (total + limit - 1) / limit
	return Page{
		Data: filtered[start:end],
		Pagination: Pagination{
			Total:       total,
			Page:        page,
			Limit:       limit,
			TotalPages:  totalPages,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	}
}

// SearchByTitle is the autocomplete variant: title-only substring match
// ranked by relevance, capped at limit.
func SearchByTitle(items []models.Anime, query string, limit int) []models.Anime {
	q := strings.ToLower(strings.TrimSpace(query))
	matched := make([]models.Anime, 0)
	for _, a := range items {
		if strings.Contains(strings.ToLower(a.Title), q) {
			matched = append(matched, a)
		}
	}
	rankByRelevance(matched, q)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// rankByRelevance orders search results: exact title match first, prefix
// match second, the rest alphabetically. The sort is stable, so equally
// ranked items keep their incoming order.
func rankByRelevance(items []models.Anime, query string) {
	sort.SliceStable(items, func(i, j int) bool {
		a := strings.ToLower(items[i].Title)
		b := strings.ToLower(items[j].Title)

		if a == query && b != query {
			return true
		}
		if b == query && a != query {
			return false
		}

		aPrefix := strings.HasPrefix(a, query)
		bPrefix := strings.HasPrefix(b, query)
		if aPrefix && !bPrefix {
			return true
		}
		if bPrefix && !aPrefix {
			return false
		}

		return a < b
	})
}

// applyOrder sorts by the explicit order param; unrecognized values leave
// the current ordering unchanged.
func applyOrder(items []models.Anime, order string) {
	switch order {
	case models.OrderLatest:
		sort.SliceStable(items, func(i, j int) bool { return items[i].ReleaseYear > items[j].ReleaseYear })
	case models.OrderOldest:
		sort.SliceStable(items, func(i, j int) bool { return items[i].ReleaseYear < items[j].ReleaseYear })
	case models.OrderTitleAZ:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Title < items[j].Title })
	case models.OrderTitleZA:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Title > items[j].Title })
	case models.OrderRatingDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Rating > items[j].Rating })
	case models.OrderRatingAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Rating < items[j].Rating })
	}
}

func filterItems(items []models.Anime, keep func(models.Anime) bool) []models.Anime {
	out := make([]models.Anime, 0, len(items))
	for _, a := range items {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
