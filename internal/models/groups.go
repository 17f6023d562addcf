package models

// GenreGroups buckets track URIs by genre, remembering the order genres were first seen.
//
// The zero value is ready to use.
type GenreGroups struct {
	order   []string
	buckets map[string][]string
}

// Add appends uri to the bucket for genre, creating the bucket on first use.
func (g *GenreGroups) Add(genre, uri string) {
	if g.buckets == nil {
		g.buckets = make(map[string][]string)
	}
	if _, ok := g.buckets[genre]; !ok {
		g.order = append(g.order, genre)
	}
	g.buckets[genre] = append(g.buckets[genre], uri)
}

// Genres returns genres in first-encounter order.
func (g *GenreGroups) Genres() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// URIs returns the URIs of a genre bucket in encounter order.
func (g *GenreGroups) URIs(genre string) []string {
	uris := g.buckets[genre]
	out := make([]string, len(uris))
	copy(out, uris)
	return out
}

// Len returns the number of genre buckets.
func (g *GenreGroups) Len() int {
	return len(g.order)
}

// Total returns the number of URIs across all buckets.
func (g *GenreGroups) Total() int {
	total := 0
	for _, uris := range g.buckets {
		total += len(uris)
	}
	return total
}

// GenreCount pairs a genre with the size of its bucket.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Counts lists bucket sizes in first-encounter order.
func (g *GenreGroups) Counts() []GenreCount {
	counts := make([]GenreCount, 0, len(g.order))
	for _, genre := range g.order {
		counts = append(counts, GenreCount{Genre: genre, Count: len(g.buckets[genre])})
	}
	return counts
}
