package tracker

// Location is the git location of a directory: either Known with a name
// (branch or abbreviated commit) or Unknown. The zero value is Unknown.
type Location struct {
	name  string
	known bool
}

// Known returns a location with the given name.
func Known(name string) Location {
	return Location{name: name, known: true}
}

// Unknown returns the unknown location.
func Unknown() Location {
	return Location{}
}

// Name returns the location name and whether it is known.
func (l Location) Name() (string, bool) {
	return l.name, l.known
}

// IsKnown reports whether the location is known.
func (l Location) IsKnown() bool {
	return l.known
}

// String returns the name, or "" for an unknown location.
func (l Location) String() string {
	return l.name
}
