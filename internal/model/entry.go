package model

// Entry is a single graded item: a course, a test, an assignment or a semester SGPA.
type Entry struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Token  string  `json:"token"`
	Weight float64 `json:"weight"` // credits, question count or assignment weight
	Score  float64 `json:"score"`  // derived from Token, never set directly
}

// Group is an ordered batch of entries, usually a semester.
type Group struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
	Score   float64 `json:"score"`
	Weight  float64 `json:"weight"`
}

// Aggregate returns the cached aggregate pair of the group.
func (g Group) Aggregate() Aggregate {
	return Aggregate{Score: g.Score, Weight: g.Weight}
}

// Aggregate is a weighted mean together with the weight it was computed over.
// Score is zero whenever Weight is zero.
type Aggregate struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"total_weight"`
}

// Empty reports whether nothing contributed to the aggregate.
func (a Aggregate) Empty() bool {
	return a.Weight <= 0
}

// Prior is a previously earned aggregate that has no explicit entries, such as
// a transcript GPA and the credits behind it.
type Prior struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Aggregate converts the prior into an aggregate pair.
func (p Prior) Aggregate() Aggregate {
	return Aggregate{Score: p.Score, Weight: p.Weight}
}
