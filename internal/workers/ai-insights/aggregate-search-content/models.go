// internal/workers/ai-insights/aggregate-search-content/models.go
package aggregatesearchcontent

type Input struct {
	RefinedQueries []string `json:"refinedQueries"`
}

type Output struct {
	ScrapedContent string `json:"scrapedContent"`
}
