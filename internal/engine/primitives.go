package engine

import (
	"github.com/reoring/xsd2fhir/errors"
)

// primitiveTypes maps XML Schema built-in names onto base-type library names.
var primitiveTypes = map[string]string{
	"anyType":            "Element",
	"anySimpleType":      "Element",
	"duration":           "Duration",
	"dateTime":           "dateTime",
	"gYear":              "date",
	"gYearMonth":         "date",
	"date":               "date",
	"time":               "time",
	"decimal":            "decimal",
	"double":             "decimal",
	"boolean":            "boolean",
	"base64Binary":       "base64Binary",
	"string":             "string",
	"anyURI":             "uri",
	"NCName":             "string",
	"nonNegativeInteger": "unsignedInt",
	"positiveInteger":    "positiveInt",
}

// PrimitiveTarget returns the library name a built-in type maps onto.
func PrimitiveTarget(local string) (string, bool) {
	name, ok := primitiveTypes[local]
	return name, ok
}

// primitive resolves a built-in type to its library definition. Entries are
// memoized so every use of a primitive shares one handle.
func (r *Resolver) primitive(local string) (*entry, error) {
	if e, ok := r.primitives[local]; ok {
		return e, nil
	}
	target, ok := primitiveTypes[local]
	if !ok {
		return nil, &errors.Error{Code: errors.CodeUnmappedPrimitiveType, Type: r.current(), Ref: "xs:" + local}
	}
	def, ok := r.lib.Lookup(target)
	if !ok {
		return nil, &errors.Error{
			Code:   errors.CodeUnmappedPrimitiveType,
			Type:   r.current(),
			Ref:    "xs:" + local,
			Detail: "base type " + target + " not in library",
		}
	}
	e := &entry{key: def.Name, name: def.Name, url: def.URL, state: Ready, def: def, library: true}
	r.primitives[local] = e
	return e, nil
}
