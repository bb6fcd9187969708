package model

// Filter drops commits after identity resolution
type Filter struct {
	ExcludedSHAs  []string
	MinDifference *int
	MaxDifference *int
}

// Selection decides which authors stay individually visible
type Selection struct {
	TopN    int      // Keep the N authors with the highest difference, 0 keeps all
	Authors []string // Allow-list of visible authors, empty keeps all
}

// StatsInput is the full input of one aggregation run
type StatsInput struct {
	Title        string
	Repositories []*Repository
	Mapping      *AuthorMapping
	AllowUnknown bool
	Filter       Filter
	Selection    Selection
}
