package common

import (
	"reflect"
)

// IsIndirectKind reports whether values of kind k hold pointers.
func IsIndirectKind(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Slice, reflect.String,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	default:
		return false
	}
}

// PadAlignTo returns the minimal number of bytes to add to pos so that
// the result is a multiple of align. align must be a power of two.
func PadAlignTo(pos, align int) int {
	if align <= 1 {
		return 0
	}
	return (align - pos%align) % align
}

// QualifiedName returns the package-qualified name of t, or its literal
// form when t is unnamed.
func QualifiedName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
