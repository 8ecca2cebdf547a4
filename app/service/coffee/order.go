package coffee

import (
	"fmt"
	"strings"
)

// Order is the drink being ordered in the current session. Empty strings mean the
// customer has not said yet.
type Order struct {
	DrinkType string   `json:"drinkType"`
	Size      string   `json:"size"`
	Milk      string   `json:"milk"`
	Extras    []string `json:"extras"`
	Name      string   `json:"name"`
}

// Field names as they appear in saved orders.
const (
	FieldDrinkType = "drinkType"
	FieldSize      = "size"
	FieldMilk      = "milk"
	FieldName      = "name"
)

var requiredFields = []string{FieldDrinkType, FieldSize, FieldMilk, FieldName}

// IsComplete reports whether drink type, size, milk and name are known. Extras are optional.
func (o Order) IsComplete() bool {
	return len(o.MissingFields()) == 0
}

// MissingFields lists required fields that are still empty, in a fixed order.
func (o Order) MissingFields() []string {
	missing := make([]string, 0, len(requiredFields))
	for _, field := range requiredFields {
		if o.get(field) == "" {
			missing = append(missing, field)
		}
	}

	return missing
}

func (o Order) get(field string) string {
	switch field {
	case FieldDrinkType:
		return o.DrinkType
	case FieldSize:
		return o.Size
	case FieldMilk:
		return o.Milk
	case FieldName:
		return o.Name
	}

	return ""
}

func (o *Order) set(field, value string) {
	switch field {
	case FieldDrinkType:
		o.DrinkType = value
	case FieldSize:
		o.Size = value
	case FieldMilk:
		o.Milk = value
	case FieldName:
		o.Name = value
	}
}

// Describe renders the order as a short sentence.
func (o Order) Describe() string {
	var parts []string
	if o.Size != "" {
		parts = append(parts, o.Size)
	}
	if o.DrinkType != "" {
		parts = append(parts, o.DrinkType)
	} else {
		parts = append(parts, "drink")
	}

	text := strings.Join(parts, " ")
	if o.Milk != "" {
		text += " with " + o.Milk
	}
	if len(o.Extras) > 0 {
		text += fmt.Sprintf(" and %s", strings.Join(o.Extras, ", "))
	}
	if o.Name != "" {
		text += " for " + o.Name
	}

	return text
}

func (o Order) clone() Order {
	o.Extras = append([]string{}, o.Extras...)
	return o
}

// fieldAliases maps the spellings a model tends to use onto field names.
var fieldAliases = map[string]string{
	"drinktype":  FieldDrinkType,
	"drink_type": FieldDrinkType,
	"drink":      FieldDrinkType,
	"size":       FieldSize,
	"milk":       FieldMilk,
	"name":       FieldName,
	"customer":   FieldName,
}

func normalizeField(name string) (string, bool) {
	field, ok := fieldAliases[strings.ToLower(strings.TrimSpace(name))]
	return field, ok
}
