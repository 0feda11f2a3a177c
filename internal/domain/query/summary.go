package query

// Counts holds one counter per known category. Categories absent from the
// data are still present with 0.
type Counts map[string]int

// Tally fills a counter for every category from observed group counts.
// Observed categories outside the known set are ignored.
func Tally(categories []string, observed map[string]int) Counts {
	counts := make(Counts, len(categories))
	for _, category := range categories {
		counts[category] = observed[category]
	}
	return counts
}

func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
