// Package cart turns loosely-typed cart payloads into canonical, aggregated
// line items. Storefront clients disagree on field names (id vs productId,
// variant_info vs variantInfo, sometimes a whole nested product object), so
// every line goes through one resolution path with a fixed precedence order.
package cart

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Line is the canonical shape of one aggregated cart entry. Price is nil when
// no line carried one; the caller falls back to the catalog price.
type Line struct {
	ProductID   uint
	Quantity    int
	Price       *decimal.Decimal
	Name        string
	Image       *string
	VariantInfo map[string]interface{}
}

// Normalize aggregates raw cart lines by (product, variant signature). Lines
// with no resolvable product id are skipped rather than failing the cart.
// Quantities sum per key; the first-seen price/name/image/variant win. Output
// order follows first appearance.
func Normalize(raw []map[string]interface{}) []Line {
	byKey := make(map[string]*Line)
	var order []string

	for _, item := range raw {
		productID, ok := resolveProductID(item)
		if !ok {
			continue
		}
		variant := resolveVariant(item)
		key := fmt.Sprintf("%d_%s", productID, VariantKey(variant))

		qty := resolveQuantity(item)
		if line, seen := byKey[key]; seen {
			line.Quantity += qty
			continue
		}

		line := &Line{
			ProductID:   productID,
			Quantity:    qty,
			Price:       resolvePrice(item),
			Name:        stringField(item, "name", "productName"),
			VariantInfo: variant,
		}
		if img := stringField(item, "image"); img != "" {
			line.Image = &img
		}
		byKey[key] = line
		order = append(order, key)
	}

	lines := make([]Line, 0, len(order))
	for _, key := range order {
		lines = append(lines, *byKey[key])
	}
	return lines
}

// resolveProductID tries, in order: a direct id field, the productId alias,
// and an embedded product object. Either id field may itself be a nested
// object carrying its own id.
func resolveProductID(item map[string]interface{}) (uint, bool) {
	for _, key := range []string{"id", "productId"} {
		if v, ok := item[key]; ok {
			if id, ok := toUint(unwrapID(v)); ok {
				return id, true
			}
		}
	}
	if v, ok := item["product"]; ok {
		if id, ok := toUint(unwrapID(v)); ok {
			return id, true
		}
	}
	return 0, false
}

// unwrapID reduces a nested product object to its id field.
func unwrapID(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m["id"]
	}
	return v
}

// resolveVariant takes an explicit variant structure if present, else
// synthesizes one from loose color/size fields, else returns nil.
func resolveVariant(item map[string]interface{}) map[string]interface{} {
	for _, key := range []string{"variant_info", "variantInfo", "selectedVariant"} {
		if m, ok := item[key].(map[string]interface{}); ok && len(m) > 0 {
			return m
		}
	}
	variant := make(map[string]interface{})
	for _, key := range []string{"color", "size"} {
		if v, ok := item[key]; ok && v != nil && v != "" {
			variant[key] = v
		}
	}
	if len(variant) == 0 {
		return nil
	}
	return variant
}

// VariantKey canonicalizes a variant signature so that attribute ordering
// never splits an aggregation key: pairs are sorted by attribute name before
// stringifying. An empty variant yields the empty string.
func VariantKey(variant map[string]interface{}) string {
	if len(variant) == 0 {
		return ""
	}
	keys := make([]string, 0, len(variant))
	for k := range variant {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%s=%v", k, variant[k])
	}
	return b.String()
}

func resolveQuantity(item map[string]interface{}) int {
	v, ok := item["quantity"]
	if !ok {
		return 1
	}
	switch q := v.(type) {
	case float64:
		if q >= 1 {
			return int(q)
		}
	case int:
		if q >= 1 {
			return q
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(q)); err == nil && n >= 1 {
			return n
		}
	}
	return 1
}

func resolvePrice(item map[string]interface{}) *decimal.Decimal {
	v, ok := item["price"]
	if !ok || v == nil {
		return nil
	}
	switch p := v.(type) {
	case float64:
		d := decimal.NewFromFloat(p)
		return &d
	case int:
		d := decimal.NewFromInt(int64(p))
		return &d
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(p)); err == nil {
			return &d
		}
	}
	return nil
}

func stringField(item map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := item[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func toUint(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case float64:
		if id > 0 {
			return uint(id), true
		}
	case int:
		if id > 0 {
			return uint(id), true
		}
	case uint:
		if id > 0 {
			return id, true
		}
	case string:
		if n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64); err == nil && n > 0 {
			return uint(n), true
		}
	}
	return 0, false
}
