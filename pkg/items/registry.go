package items

import (
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/patrickelectric/sixtyfps/pkg/graphics"
	"github.com/patrickelectric/sixtyfps/pkg/property"
	"github.com/patrickelectric/sixtyfps/pkg/strutil"
)

var itemTypes = map[string]reflect.Type{
	"Rectangle":       reflect.TypeFor[Rectangle](),
	"BorderRectangle": reflect.TypeFor[BorderRectangle](),
	"Image":           reflect.TypeFor[Image](),
	"Text":            reflect.TypeFor[Text](),
	"TouchArea":       reflect.TypeFor[TouchArea](),
	"Path":            reflect.TypeFor[Path](),
	"Flickable":       reflect.TypeFor[Flickable](),
	"Window":          reflect.TypeFor[Window](),
}

// TypeOf returns the record type of the item with the given builtin name.
func TypeOf(name string) (reflect.Type, bool) {
	t, ok := itemTypes[name]
	return t, ok
}

// Names returns the names of all item kinds.
func Names() []string {
	return slices.Sorted(maps.Keys(itemTypes))
}

// New creates an item of the given kind, with the default values of its
// properties.
func New(name string) (Item, bool) {
	t, ok := itemTypes[name]
	if !ok {
		return nil, false
	}
	item := reflect.New(t).Interface().(Item)
	initDefaults(item)
	return item, true
}

// Destroy detaches all the properties of an item from the dependency graph.
func Destroy(item Item) {
	v := reflect.ValueOf(item).Elem()
	for _, f := range fieldsOf(v.Type()) {
		if d, ok := v.FieldByIndex(f.index).Addr().Interface().(interface{ Detach() }); ok {
			d.Detach()
		}
	}
}

func initDefaults(item Item) {
	switch item := item.(type) {
	case *Text:
		item.Color.Set(graphics.RGBA(0, 0, 0, 0xff))
		item.HorizontalAlignment.Set("align_left")
		item.VerticalAlignment.Set("align_top")
	case *Flickable:
		item.Interactive.Set(true)
	}
}

type field struct {
	name  string
	index []int
}

var (
	fieldsMutex sync.Mutex
	fieldsCache = map[reflect.Type][]field{}
)

var signalType = reflect.TypeFor[property.Signal]()

// fieldsOf returns the property and signal fields of an item type.
func fieldsOf(t reflect.Type) []field {
	fieldsMutex.Lock()
	defer fieldsMutex.Unlock()
	if fields, ok := fieldsCache[t]; ok {
		return fields
	}
	var fields []field
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		if sf.Type != signalType && !isPropertyType(sf.Type) {
			continue
		}
		fields = append(fields, field{strutil.CamelToSnake(sf.Name), sf.Index})
	}
	fieldsCache[t] = fields
	return fields
}

func isPropertyType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.PkgPath() == signalType.PkgPath() &&
		strings.HasPrefix(t.Name(), "Property[")
}

// Field returns a pointer to the property or signal of an item with the
// given name, which is a *property.Property[T] or a *property.Signal.
func Field(item Item, name string) (any, bool) {
	v := reflect.ValueOf(item).Elem()
	for _, f := range fieldsOf(v.Type()) {
		if f.name == name {
			return v.FieldByIndex(f.index).Addr().Interface(), true
		}
	}
	return nil, false
}

// FieldNames returns the names of the properties and signals of an item
// kind.
func FieldNames(name string) []string {
	t, ok := itemTypes[name]
	if !ok {
		return nil
	}
	var names []string
	for _, f := range fieldsOf(t) {
		names = append(names, f.name)
	}
	return names
}
