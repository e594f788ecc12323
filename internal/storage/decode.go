package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/rgehrsitz/taxhelper/internal/logging"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Decode parses a stored document without trusting its shape. Legacy hour
// fields are converted to minutes, values of the wrong type are coerced
// (unparseable numbers become 0) and anything missing keeps its default.
func Decode(data []byte, fy domain.FinancialYear) (domain.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	upgradeLegacy(raw)

	c := &coercer{}
	clean, err := json.Marshal(c.coerce(raw, reflect.TypeOf(domain.Document{}), ""))
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if len(c.fixed) > 0 {
		logging.Log.Warn().Str("fy", fy.Label()).Strs("fields", c.fixed).Msg("coerced malformed values to defaults")
	}

	doc := domain.DefaultDocument(fy)
	if err := json.Unmarshal(clean, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	fillDefaults(&doc, fy)
	return doc, nil
}

// upgradeLegacy converts the hour-based WFH fields of older documents to minutes
func upgradeLegacy(raw map[string]any) {
	wfh, ok := raw["wfh"].(map[string]any)
	if !ok {
		return
	}
	if _, has := wfh["totalMinutes"]; !has {
		if hours, ok := toFloat(wfh["totalHours"]); ok {
			wfh["totalMinutes"] = hoursToMinutes(hours)
		}
	}
	delete(wfh, "totalHours")

	log, ok := wfh["hoursLog"].([]any)
	if !ok {
		return
	}
	for _, item := range log {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if _, has := entry["minutes"]; !has {
			if hours, ok := toFloat(entry["hours"]); ok {
				entry["minutes"] = hoursToMinutes(hours)
			}
		}
		delete(entry, "hours")
	}
}

func hoursToMinutes(hours float64) int64 {
	return int64(math.Round(hours * 60))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// coercer rewrites a decoded JSON tree so it unmarshals cleanly into a Go type
type coercer struct {
	fixed []string
}

func (c *coercer) note(path string) {
	c.fixed = append(c.fixed, path)
}

func (c *coercer) coerce(v any, t reflect.Type, path string) any {
	if t == decimalType {
		return c.coerceDecimal(v, path)
	}

	switch t.Kind() {
	case reflect.Ptr:
		if v == nil {
			return nil
		}
		return c.coerce(v, t.Elem(), path)

	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			if v != nil {
				c.note(path)
			}
			return map[string]any{}
		}
		out := make(map[string]any, len(m))
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := jsonName(f)
			if name == "" {
				continue
			}
			if val, ok := m[name]; ok {
				out[name] = c.coerce(val, f.Type, join(path, name))
			}
		}
		return out

	case reflect.Slice:
		arr, ok := v.([]any)
		if !ok {
			if v != nil {
				c.note(path)
			}
			return []any{}
		}
		out := make([]any, 0, len(arr))
		for i, item := range arr {
			out = append(out, c.coerce(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i)))
		}
		return out

	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok {
			if v != nil {
				c.note(path)
			}
			return map[string]any{}
		}
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = c.coerce(item, t.Elem(), join(path, k))
		}
		return out

	case reflect.String:
		switch x := v.(type) {
		case string:
			return x
		case json.Number:
			return x.String()
		case bool:
			return strconv.FormatBool(x)
		}
		if v != nil {
			c.note(path)
		}
		return ""

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			if v != nil {
				c.note(path)
			}
			return 0
		}
		return int64(f)

	case reflect.Bool:
		switch x := v.(type) {
		case bool:
			return x
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				c.note(path)
			}
			return err == nil && b
		case json.Number:
			f, err := x.Float64()
			return err == nil && f != 0
		}
		return false
	}
	return v
}

func (c *coercer) coerceDecimal(v any, path string) string {
	var s string
	switch x := v.(type) {
	case nil:
		return "0"
	case json.Number:
		s = x.String()
	case string:
		s = strings.TrimSpace(x)
	default:
		c.note(path)
		return "0"
	}
	if s == "" {
		return "0"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		c.note(path)
		return "0"
	}
	return d.String()
}

func jsonName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// fillDefaults restores enumerations and containers an old or hand-edited
// document left empty
func fillDefaults(doc *domain.Document, fy domain.FinancialYear) {
	if doc.UserSettings.CurrentSection == "" {
		doc.UserSettings.CurrentSection = "dashboard"
	}
	if doc.UserSettings.FinancialYear == "" {
		doc.UserSettings.FinancialYear = fy.Label()
	}
	if doc.TaxpayerDetails.FilingStatus == "" {
		doc.TaxpayerDetails.FilingStatus = domain.FilingStatusSingle
	}
	if doc.TaxpayerDetails.InsurancePremiums == nil {
		doc.TaxpayerDetails.InsurancePremiums = map[string]decimal.Decimal{}
	}
	if doc.Income.PAYG == nil {
		doc.Income.PAYG = []domain.IncomeRecord{}
	}
	if doc.GeneralExpenses == nil {
		doc.GeneralExpenses = []domain.ExpenseRecord{}
	}
	if doc.Wfh.Method == "" {
		doc.Wfh.Method = domain.WfhMethodFixedRate
	}
	if doc.Wfh.HoursLog == nil {
		doc.Wfh.HoursLog = []domain.WfhHoursLogEntry{}
	}
	if doc.Wfh.ActualCostDetails.Assets == nil {
		doc.Wfh.ActualCostDetails.Assets = []domain.WfhAssetRecord{}
	}
	if doc.Wfh.TotalMinutes == 0 {
		doc.Wfh.TotalMinutes = doc.Wfh.SumLoggedMinutes()
	}
}
