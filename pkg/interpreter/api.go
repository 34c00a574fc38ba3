// Package interpreter instantiates lowered components at runtime, without
// generating code.
//
// A ComponentDescription computes once the layout of the instances of a
// component. Each ComponentBox created from it holds the properties,
// signals and items of one instance, with the bindings of the component
// installed on them. Bindings are evaluated lazily by the reactive engine of
// the property package.
package interpreter

import (
	"errors"
	"fmt"
	"os"

	"github.com/patrickelectric/sixtyfps/pkg/compiler"
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/logutil"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/property"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
	"github.com/patrickelectric/sixtyfps/pkg/vals"
)

var logger = logutil.GetLogger("[interpreter] ")

// Errors returned by the runtime API.
var (
	// ErrWrongComponent is returned when an instance is passed to the
	// description of another component.
	ErrWrongComponent   = errors.New("instance of another component")
	ErrPropertyNotFound = errors.New("property not found")
	ErrSignalNotFound   = errors.New("signal not found")
	// ErrTypeMismatch is returned when a value cannot be converted to the
	// type of a property.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Load compiles the source of a document and returns the description of
// its root component. The error is a *diag.BuildDiagnostics when the
// document has errors.
func Load(source, path string, includePaths []string) (*ComponentDescription, error) {
	d, bd := LoadWithConfig(path, source, &compiler.Configuration{IncludePaths: includePaths})
	if err := bd.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile is like Load, reading the source from a file.
func LoadFile(path string, includePaths []string) (*ComponentDescription, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(string(source), path, includePaths)
}

// LoadWithConfig compiles a document with the given configuration. The
// description is nil when there are errors; the diagnostics are always
// returned, as they may contain warnings.
func LoadWithConfig(path, source string, cfg *compiler.Configuration) (*ComponentDescription, *diag.BuildDiagnostics) {
	doc, bd := compiler.CompileSource(path, source, cfg)
	if bd.HasError() {
		return nil, bd
	}
	return NewDescription(doc.Root), bd
}

// NewDescription returns the description of a lowered component.
func NewDescription(c *objtree.Component) *ComponentDescription {
	return newDescription(c, make(map[*objtree.Component]*ComponentDescription))
}

// ID returns the name of the component.
func (d *ComponentDescription) ID() string { return d.component.ID }

// Component returns the lowered component.
func (d *ComponentDescription) Component() *objtree.Component { return d.component }

// Layout returns the layout of the instances.
func (d *ComponentDescription) Layout() *Layout { return d.layout }

// Properties returns the public properties and signals of the component,
// with their types.
func (d *ComponentDescription) Properties() map[string]typeregister.Type {
	return d.component.PublicProperties()
}

// Create creates an instance with its own animation driver.
func (d *ComponentDescription) Create() *ComponentBox {
	return d.CreateWithDriver(property.NewAnimationDriver())
}

// CreateWithDriver creates an instance whose animations are driven by the
// given driver.
func (d *ComponentDescription) CreateWithDriver(driver *property.AnimationDriver) *ComponentBox {
	return d.instantiate(nil, driver, nil)
}

// check verifies that the box is an instance of the component, by
// comparing layouts.
func (d *ComponentDescription) check(b *ComponentBox) error {
	if b == nil || b.inst.layout != d.layout {
		return ErrWrongComponent
	}
	return nil
}

func (d *ComponentDescription) publicProperty(b *ComponentBox, name string) (cell, typeregister.Type, error) {
	if err := d.check(b); err != nil {
		return nil, typeregister.InvalidType, err
	}
	decl, ok := d.component.RootElement.PropertyDeclarations[name]
	if !ok || !decl.Expose || decl.Type.Kind == typeregister.Signal {
		return nil, typeregister.InvalidType, fmt.Errorf("%w: %s", ErrPropertyNotFound, name)
	}
	c, err := b.localCell(d.component.RootElement, name)
	return c, decl.Type, err
}

// SetProperty sets a public property to a value, converted to the type of
// the property. The change is animated if the property has an animation.
func (d *ComponentDescription) SetProperty(b *ComponentBox, name string, value any) error {
	c, typ, err := d.publicProperty(b, name)
	if err != nil {
		return err
	}
	v, err := ConvertValue(value, typ)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return c.set(v, b.animationFor(d.component.RootElement, name))
}

// SetBinding binds a public property to a function. Properties read
// through the tracker passed to the function become dependencies.
func (d *ComponentDescription) SetBinding(b *ComponentBox, name string, f func(t *property.Tracker) (vals.Value, error)) error {
	c, typ, err := d.publicProperty(b, name)
	if err != nil {
		return err
	}
	c.setBinding(func(t *property.Tracker) (vals.Value, error) {
		v, err := f(t)
		if err != nil {
			return nil, err
		}
		return ConvertValue(v, typ)
	}, b.animationFor(d.component.RootElement, name))
	return nil
}

// GetProperty returns the value of a public property.
func (d *ComponentDescription) GetProperty(b *ComponentBox, name string) (vals.Value, error) {
	return d.GetPropertyTracked(b, name, nil)
}

// GetPropertyTracked is like GetProperty, recording the read in t. It is
// used in functions passed to SetBinding.
func (d *ComponentDescription) GetPropertyTracked(b *ComponentBox, name string, t *property.Tracker) (vals.Value, error) {
	c, _, err := d.publicProperty(b, name)
	if err != nil {
		return nil, err
	}
	return c.get(t)
}

func (d *ComponentDescription) publicSignal(b *ComponentBox, name string) (*property.Signal, error) {
	if err := d.check(b); err != nil {
		return nil, err
	}
	decl, ok := d.component.RootElement.PropertyDeclarations[name]
	if !ok || !decl.Expose || decl.Type.Kind != typeregister.Signal {
		return nil, fmt.Errorf("%w: %s", ErrSignalNotFound, name)
	}
	return b.localSignal(d.component.RootElement, name)
}

// SetSignalHandler sets the handler of a public signal.
func (d *ComponentDescription) SetSignalHandler(b *ComponentBox, name string, handler func()) error {
	sig, err := d.publicSignal(b, name)
	if err != nil {
		return err
	}
	sig.SetHandler(handler)
	return nil
}

// EmitSignal emits a public signal.
func (d *ComponentDescription) EmitSignal(b *ComponentBox, name string) error {
	sig, err := d.publicSignal(b, name)
	if err != nil {
		return err
	}
	sig.Emit()
	return nil
}

// SetProperty is a shorthand for b.Description().SetProperty(b, ...).
func (b *ComponentBox) SetProperty(name string, value any) error {
	return b.desc.SetProperty(b, name, value)
}

// GetProperty is a shorthand for b.Description().GetProperty(b, ...).
func (b *ComponentBox) GetProperty(name string) (vals.Value, error) {
	return b.desc.GetProperty(b, name)
}

// SetSignalHandler is a shorthand for b.Description().SetSignalHandler(b,
// ...).
func (b *ComponentBox) SetSignalHandler(name string, handler func()) error {
	return b.desc.SetSignalHandler(b, name, handler)
}

// EmitSignal is a shorthand for b.Description().EmitSignal(b, ...).
func (b *ComponentBox) EmitSignal(name string) error {
	return b.desc.EmitSignal(b, name)
}

// ConvertValue converts a host value to a runtime value of the given type.
// Go integer and float types are accepted for numbers, strings for strings,
// colors, images, easing curves, paths and enumeration values, and slices
// and maps for arrays and objects. Integers must fit in an int32.
func ConvertValue(v any, t typeregister.Type) (vals.Value, error) {
	converted, err := vals.ConvertStrict(v, t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	return converted, nil
}
