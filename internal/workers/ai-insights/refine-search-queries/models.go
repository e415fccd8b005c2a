// internal/workers/ai-insights/refine-search-queries/models.go
package refinesearchqueries

// Input carries the raw form values; a missing field is nil so validation
// can tell it apart from an empty one.
type Input struct {
	Product  *string `json:"product"`
	Category *string `json:"category"`
}

type Output struct {
	RefinedQueries []string `json:"refinedQueries"`
	QueryCount     int      `json:"queryCount"`
}
