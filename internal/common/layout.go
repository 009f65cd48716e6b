package common

import (
	"reflect"
	"sync"
)

// Plan describes the in-memory layout of a Go type as far as zero-copy
// eligibility is concerned. Plans are computed once per reflect.Type.
type Plan struct {
	HasPadding     bool
	HasIndirection bool
	Fields         []FieldInfo
}

// FieldInfo is the layout of one top-level struct field.
type FieldInfo struct {
	Index  int
	Name   string
	Offset int
	Size   int
}

var plans = struct {
	mu sync.RWMutex
	m  map[reflect.Type]*Plan
}{m: make(map[reflect.Type]*Plan)}

// PlanOf returns the cached layout plan of t.
func PlanOf(t reflect.Type) *Plan {
	plans.mu.RLock()
	if plan, ok := plans.m[t]; ok {
		plans.mu.RUnlock()
		return plan
	}
	plans.mu.RUnlock()

	plans.mu.Lock()
	defer plans.mu.Unlock()

	// Double-check
	if plan, ok := plans.m[t]; ok {
		return plan
	}

	plan := &Plan{
		HasPadding:     hasPadding(t),
		HasIndirection: hasIndirection(t),
	}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			plan.Fields = append(plan.Fields, FieldInfo{
				Index:  i,
				Name:   sf.Name,
				Offset: int(sf.Offset),
				Size:   int(sf.Type.Size()),
			})
		}
	}
	plans.m[t] = plan
	return plan
}

// hasPadding reports whether the representation of t contains bytes
// that belong to no field.
func hasPadding(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		next := uintptr(0)
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Offset != next || hasPadding(sf.Type) {
				return true
			}
			next = sf.Offset + sf.Type.Size()
		}
		return next != t.Size()
	case reflect.Array:
		return t.Len() > 0 && hasPadding(t.Elem())
	default:
		return false
	}
}

func hasIndirection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasIndirection(t.Field(i).Type) {
				return true
			}
		}
		return false
	case reflect.Array:
		return hasIndirection(t.Elem())
	default:
		return IsIndirectKind(t.Kind())
	}
}
