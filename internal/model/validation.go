package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Error types reported in FieldError.Type.
const (
	ErrTypeMissing      = "missing"
	ErrTypeJSONInvalid  = "json_invalid"
	ErrTypeDictType     = "dict_type"
	ErrTypeStringType   = "string_type"
	ErrTypeStringShort  = "string_too_short"
	ErrTypeIntType      = "int_type"
	ErrTypeIntFromFloat = "int_from_float"
	ErrTypeIntParsing   = "int_parsing"
	ErrTypeGreaterEqual = "greater_than_equal"
)

// FieldError describes one invalid input location, e.g. Loc ["body", "cooking_time"].
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationErrors collects every FieldError found in a single input.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, strings.Join(fe.Loc, ".")+": "+fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationErrors unwraps err into ValidationErrors when it carries one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// InvalidPathInt builds the error reported for a path segment that is not an integer.
func InvalidPathInt(name string) ValidationErrors {
	return ValidationErrors{{
		Loc:  []string{"path", name},
		Msg:  "Input should be a valid integer, unable to parse string as an integer",
		Type: ErrTypeIntParsing,
	}}
}

// DecodeRecipeCreate parses a JSON request body into RecipeCreate.
// title, cooking_time, ingredients and instructions are required; views defaults to 0.
// All problems are reported together as ValidationErrors.
func DecodeRecipeCreate(body []byte) (RecipeCreate, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return RecipeCreate{}, ValidationErrors{{
				Loc:  []string{"body"},
				Msg:  "Input should be a valid dictionary or object to extract fields from",
				Type: ErrTypeDictType,
			}}
		}
		return RecipeCreate{}, ValidationErrors{{
			Loc:  []string{"body"},
			Msg:  "JSON decode error",
			Type: ErrTypeJSONInvalid,
		}}
	}
	if raw == nil {
		return RecipeCreate{}, ValidationErrors{{
			Loc:  []string{"body"},
			Msg:  "Field required",
			Type: ErrTypeMissing,
		}}
	}

	var (
		in   RecipeCreate
		errs ValidationErrors
	)

	if fe := decodeString(raw, "title", &in.Title); fe != nil {
		errs = append(errs, *fe)
	} else if fe := checkTitle(in.Title); fe != nil {
		errs = append(errs, *fe)
	}

	if _, ok := raw["views"]; ok {
		if fe := decodeInt(raw, "views", &in.Views); fe != nil {
			errs = append(errs, *fe)
		} else if fe := checkViews(in.Views); fe != nil {
			errs = append(errs, *fe)
		}
	}

	if fe := decodeInt(raw, "cooking_time", &in.CookingTime); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := decodeString(raw, "ingredients", &in.Ingredients); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := decodeString(raw, "instructions", &in.Instructions); fe != nil {
		errs = append(errs, *fe)
	}

	if len(errs) > 0 {
		return RecipeCreate{}, errs
	}
	return in, nil
}

func missing(field string) *FieldError {
	return &FieldError{Loc: []string{"body", field}, Msg: "Field required", Type: ErrTypeMissing}
}

func decodeString(raw map[string]json.RawMessage, field string, dst *string) *FieldError {
	v, ok := raw[field]
	if !ok {
		return missing(field)
	}
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return &FieldError{Loc: []string{"body", field}, Msg: "Input should be a valid string", Type: ErrTypeStringType}
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return &FieldError{Loc: []string{"body", field}, Msg: "Input should be a valid string", Type: ErrTypeStringType}
	}
	return nil
}

// decodeInt accepts JSON integers, floats with no fractional part and
// strings holding a base-10 integer.
func decodeInt(raw map[string]json.RawMessage, field string, dst *int) *FieldError {
	v, ok := raw[field]
	if !ok {
		return missing(field)
	}
	invalid := &FieldError{Loc: []string{"body", field}, Msg: "Input should be a valid integer", Type: ErrTypeIntType}

	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var anyVal any
	if err := dec.Decode(&anyVal); err != nil {
		return invalid
	}
	if s, isStr := anyVal.(string); isStr {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return &FieldError{
				Loc:  []string{"body", field},
				Msg:  "Input should be a valid integer, unable to parse string as an integer",
				Type: ErrTypeIntParsing,
			}
		}
		anyVal = json.Number(strconv.FormatInt(i, 10))
	}
	num, ok := anyVal.(json.Number)
	if !ok {
		return invalid
	}
	if i, err := num.Int64(); err == nil {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return invalid
		}
		*dst = int(i)
		return nil
	}
	f, err := num.Float64()
	if err != nil || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return invalid
	}
	if f != math.Trunc(f) {
		return &FieldError{
			Loc:  []string{"body", field},
			Msg:  "Input should be a valid integer, got a number with a fractional part",
			Type: ErrTypeIntFromFloat,
		}
	}
	*dst = int(f)
	return nil
}

func checkTitle(title string) *FieldError {
	if strings.TrimSpace(title) == "" {
		return &FieldError{Loc: []string{"body", "title"}, Msg: "String should have at least 1 character", Type: ErrTypeStringShort}
	}
	return nil
}

func checkViews(views int) *FieldError {
	if views < 0 {
		return &FieldError{Loc: []string{"body", "views"}, Msg: "Input should be greater than or equal to 0", Type: ErrTypeGreaterEqual}
	}
	return nil
}
