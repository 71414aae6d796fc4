package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"

	appErrors "github.com/limaJavier/classtimetable/pkg/errors"
)

const DefaultClassName = "Class A"

// PackageFromFile reads a constraint package document produced by the external rule parser
func PackageFromFile(file string) (ConstraintPackage, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ConstraintPackage{}, fmt.Errorf("cannot read constraint package: %w", err)
	}
	return PackageFromJSON(bytes)
}

// PackageFromJSON decodes and validates a constraint package document. Soft
// weights missing from the document keep their defaults.
func PackageFromJSON(bytes []byte) (ConstraintPackage, error) {
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ConstraintPackage{}, fmt.Errorf("cannot parse constraint package: %w", err)
	}
	return PackageFromMap(inputJson)
}

// PackageFromMap decodes an already unmarshalled document
func PackageFromMap(inputJson map[string]any) (ConstraintPackage, error) {
	constraints := ConstraintPackage{Soft: DefaultSoftConstraints()}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &constraints,
		TagName:    "mapstructure",
		DecodeHook: integralNumberHook,
	})
	if err != nil {
		return ConstraintPackage{}, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return ConstraintPackage{}, appErrors.Wrap(err, appErrors.KindSchemaInvalid, appErrors.ErrSchemaInvalid.Message)
	}

	if constraints.Hard.ClassName == "" {
		constraints.Hard.ClassName = DefaultClassName
	}
	if constraints.Soft.PreferredWindows == nil {
		constraints.Soft.PreferredWindows = map[string][]string{}
	}

	if err := Validate(constraints); err != nil {
		return ConstraintPackage{}, err
	}
	return constraints, nil
}

// integralNumberHook rejects fractional numbers decoded into integer fields,
// which mapstructure would otherwise truncate.
func integralNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}

	value := reflect.ValueOf(data).Float()
	if value != math.Trunc(value) {
		return nil, fmt.Errorf("expected an integer, got %v", value)
	}
	return data, nil
}
