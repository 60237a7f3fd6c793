package html

// RegionType identifies the kind of CSS region found in HTML
type RegionType int

const (
	// UnknownRegion is the zero value, indicating an uninitialized region type
	UnknownRegion RegionType = iota
	// StyleTag represents CSS inside a <style> element
	StyleTag
	// StyleAttribute represents a declaration list inside a style="..." attribute
	StyleAttribute
)

// Region is a byte span of CSS content in a document
type Region struct {
	Start int
	End   int
	Type  RegionType
}

// Shift returns the region moved by delta bytes
func (r Region) Shift(delta int) Region {
	r.Start += delta
	r.End += delta
	return r
}
