package graphics

// ResourceKind is the kind of a Resource.
type ResourceKind int

// Possible values of ResourceKind.
const (
	NoResource ResourceKind = iota
	FileResource
	EmbeddedResource
)

// Resource is an image, either referenced by an absolute file path or
// embedded in the compiled component.
type Resource struct {
	Kind ResourceKind
	Path string
	Data []byte
}

// IsNone reports whether the resource is empty.
func (r Resource) IsNone() bool { return r.Kind == NoResource }

func (r Resource) String() string {
	switch r.Kind {
	case FileResource:
		return r.Path
	case EmbeddedResource:
		return "embedded:" + r.Path
	}
	return "<none>"
}
