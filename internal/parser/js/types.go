package js

// Segment is a literal text span of a template string, between ${...}
// expression boundaries. Start and End are byte offsets in the JS/TS source.
type Segment struct {
	Start int
	End   int
}

// TemplateRegion represents a tagged template literal found in JS/TS source
type TemplateRegion struct {
	// Segments contains the literal text parts of the template, split at ${...} boundaries
	Segments []Segment
	// Tag is the template tag function name ("css" or "html")
	Tag string
}
