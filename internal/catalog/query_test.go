package catalog

import (
	"net/url"
	"testing"

	"github.com/quangdle/anistream/internal/models"
)

func anime(id int, title string, year int, status models.AnimeStatus, typ models.AnimeType, rating float64, genreIDs ...int) models.Anime {
	genres := make([]models.Genre, 0, len(genreIDs))
	for _, g := range genreIDs {
		genres = append(genres, models.Genre{ID: g})
	}
	return models.Anime{
		ID:          id,
		Title:       title,
		ReleaseYear: year,
		Status:      status,
		Type:        typ,
		Rating:      rating,
		Genres:      genres,
	}
}

func titles(items []models.Anime) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.Title
	}
	return out
}

func sameTitles(got []models.Anime, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].Title != want[i] {
			return false
		}
	}
	return true
}

func TestQuerySearchContainment(t *testing.T) {
	items := []models.Anime{
		anime(1, "Naruto", 2002, models.StatusCompleted, models.TypeTV, 8.3),
		anime(2, "Bleach", 2004, models.StatusCompleted, models.TypeTV, 8.1),
		anime(3, "Naruto Shippuden", 2007, models.StatusCompleted, models.TypeTV, 8.6),
		anime(4, "Boruto: Naruto Next Generations", 2017, models.StatusOngoing, models.TypeTV, 6.1),
	}

	page := Query(items, QueryParams{Search: "naruto", Page: 1, Limit: 25})
	if page.Pagination.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Pagination.Total)
	}
	for _, a := range page.Data {
		if a.Title == "Bleach" {
			t.Fatalf("non-matching title survived search filter: %v", titles(page.Data))
		}
	}
}

func TestQueryRelevanceOrdering(t *testing.T) {
	// exact match first, then prefix matches, then the rest alphabetically
	items := []models.Anime{
		anime(1, "Boruto: Naruto Next Generations", 2017, models.StatusOngoing, models.TypeTV, 6.1),
		anime(2, "Naruto Shippuden", 2007, models.StatusCompleted, models.TypeTV, 8.6),
		anime(3, "Road of Naruto", 2022, models.StatusCompleted, models.TypeSpecial, 7.0),
		anime(4, "Naruto", 2002, models.StatusCompleted, models.TypeTV, 8.3),
	}

	page := Query(items, QueryParams{Search: "Naruto", Page: 1, Limit: 25})
	want := []string{"Naruto", "Naruto Shippuden", "Boruto: Naruto Next Generations", "Road of Naruto"}
	if !sameTitles(page.Data, want) {
		t.Fatalf("order = %v, want %v", titles(page.Data), want)
	}
}

func TestQueryFiltersAndPagination(t *testing.T) {
	items := []models.Anime{
		anime(1, "One Piece", 1999, models.StatusOngoing, models.TypeTV, 8.9, 1),
		anime(2, "One Punch Man", 2015, models.StatusOngoing, models.TypeTV, 8.7, 1),
		anime(3, "Dr. Stone", 2019, models.StatusOngoing, models.TypeTV, 8.2, 2),
		anime(4, "Jujutsu Kaisen", 2020, models.StatusOngoing, models.TypeTV, 8.5, 1),
		anime(5, "Chainsaw Man", 2022, models.StatusOngoing, models.TypeTV, 8.4, 1),
		anime(6, "Death Note", 2006, models.StatusCompleted, models.TypeTV, 8.9, 2),
	}

	page := Query(items, QueryParams{Status: "Ongoing", Order: models.OrderLatest, Page: 1, Limit: 2})

	if page.Pagination.Total != 5 {
		t.Fatalf("total = %d, want 5", page.Pagination.Total)
	}
	if page.Pagination.TotalPages != 3 {
		t.Fatalf("totalPages = %d, want 3", page.Pagination.TotalPages)
	}
	if !page.Pagination.HasNextPage || page.Pagination.HasPrevPage {
		t.Fatalf("page flags = next %v prev %v, want next true prev false",
			page.Pagination.HasNextPage, page.Pagination.HasPrevPage)
	}
	want := []string{"Chainsaw Man", "Jujutsu Kaisen"}
	if !sameTitles(page.Data, want) {
		t.Fatalf("data = %v, want %v", titles(page.Data), want)
	}
}

func TestQueryAllSentinelIgnoresFilter(t *testing.T) {
	items := []models.Anime{
		anime(1, "A", 2020, models.StatusOngoing, models.TypeTV, 7),
		anime(2, "B", 2021, models.StatusCompleted, models.TypeMovie, 8),
	}
	page := Query(items, QueryParams{Status: "All", Type: "All", Year: "All", Page: 1, Limit: 25})
	if page.Pagination.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Pagination.Total)
	}
}

func TestQueryGenreFilter(t *testing.T) {
	items := []models.Anime{
		anime(1, "A", 2020, models.StatusOngoing, models.TypeTV, 7, 1, 2),
		anime(2, "B", 2021, models.StatusOngoing, models.TypeTV, 8, 2),
		anime(3, "C", 2021, models.StatusOngoing, models.TypeTV, 8, 3),
	}
	page := Query(items, QueryParams{GenreID: 2, Page: 1, Limit: 25})
	if page.Pagination.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Pagination.Total)
	}
}

func TestQueryOrderVariants(t *testing.T) {
	items := []models.Anime{
		anime(1, "Beta", 2010, models.StatusCompleted, models.TypeTV, 6.0),
		anime(2, "Alpha", 2020, models.StatusCompleted, models.TypeTV, 9.0),
		anime(3, "Gamma", 2015, models.StatusCompleted, models.TypeTV, 7.5),
	}

	tests := []struct {
		order string
		want  []string
	}{
		{models.OrderLatest, []string{"Alpha", "Gamma", "Beta"}},
		{models.OrderOldest, []string{"Beta", "Gamma", "Alpha"}},
		{models.OrderTitleAZ, []string{"Alpha", "Beta", "Gamma"}},
		{models.OrderTitleZA, []string{"Gamma", "Beta", "Alpha"}},
		{models.OrderRatingDesc, []string{"Alpha", "Gamma", "Beta"}},
		{models.OrderRatingAsc, []string{"Beta", "Gamma", "Alpha"}},
		{"Bogus", []string{"Beta", "Alpha", "Gamma"}},
	}
	for _, tt := range tests {
		page := Query(items, QueryParams{Order: tt.order, Page: 1, Limit: 25})
		if !sameTitles(page.Data, tt.want) {
			t.Errorf("order %q: got %v, want %v", tt.order, titles(page.Data), tt.want)
		}
	}
}

func TestQueryOutOfRangePage(t *testing.T) {
	items := []models.Anime{
		anime(1, "A", 2020, models.StatusOngoing, models.TypeTV, 7),
		anime(2, "B", 2021, models.StatusOngoing, models.TypeTV, 8),
	}
	page := Query(items, QueryParams{Page: 9, Limit: 25})
	if len(page.Data) != 0 {
		t.Fatalf("data = %v, want empty", titles(page.Data))
	}
	if page.Pagination.Total != 2 || page.Pagination.TotalPages != 1 {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
	if page.Pagination.HasNextPage || !page.Pagination.HasPrevPage {
		t.Fatalf("page flags = %+v", page.Pagination)
	}
}

func TestQueryInvalidYearSkipsFilter(t *testing.T) {
	items := []models.Anime{
		anime(1, "A", 2020, models.StatusOngoing, models.TypeTV, 7),
		anime(2, "B", 2021, models.StatusOngoing, models.TypeTV, 8),
	}
	page := Query(items, QueryParams{Year: "not-a-year", Page: 1, Limit: 25})
	if page.Pagination.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Pagination.Total)
	}
}

func TestParamsFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  QueryParams
	}{
		{
			name:  "defaults",
			query: "",
			want:  QueryParams{Page: DefaultPage, Limit: DefaultLimit},
		},
		{
			name:  "all params",
			query: "search=naruto&genreId=3&year=2020&status=Ongoing&type=TV&order=Latest&page=2&limit=10",
			want: QueryParams{
				Search: "naruto", GenreID: 3, Year: "2020", Status: "Ongoing",
				Type: "TV", Order: "Latest", Page: 2, Limit: 10,
			},
		},
		{
			name:  "unparseable numbers fall back",
			query: "page=abc&limit=-5&genreId=x",
			want:  QueryParams{Page: DefaultPage, Limit: DefaultLimit},
		},
		{
			name:  "zero page falls back",
			query: "page=0",
			want:  QueryParams{Page: DefaultPage, Limit: DefaultLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			got := ParamsFromQuery(q)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSearchByTitle(t *testing.T) {
	items := []models.Anime{
		anime(1, "Naruto Shippuden", 2007, models.StatusCompleted, models.TypeTV, 8.6),
		anime(2, "Naruto", 2002, models.StatusCompleted, models.TypeTV, 8.3),
		anime(3, "Bleach", 2004, models.StatusCompleted, models.TypeTV, 8.1),
		anime(4, "Boruto: Naruto Next Generations", 2017, models.StatusOngoing, models.TypeTV, 6.1),
	}

	got := SearchByTitle(items, "naruto", 2)
	want := []string{"Naruto", "Naruto Shippuden"}
	if !sameTitles(got, want) {
		t.Fatalf("got %v, want %v", titles(got), want)
	}

	if got := SearchByTitle(items, "zzz", 5); len(got) != 0 {
		t.Fatalf("got %v, want empty", titles(got))
	}
}
