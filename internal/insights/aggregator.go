package insights

import "strings"

// Aggregate stands in for search result scraping: the refined queries are
// joined one per line, in order.
func Aggregate(queries []string) string {
	return strings.Join(queries, "\n")
}
