package search

import (
	"sort"
	"strings"
)

// specLabels maps raw specification keys to the labels shown in key_specs.
// Keys absent here fall back to title-cased versions of themselves.
var specLabels = map[string]string{
	// Mobile / electronics
	"processor":        "Processor",
	"ram":              "RAM",
	"storage":          "Storage",
	"camera":           "Camera",
	"front_camera":     "Front Camera",
	"battery":          "Battery",
	"battery_capacity": "Battery",
	"battery_life":     "Battery Life",
	"screen_size":      "Screen",
	"display":          "Display",
	"os":               "OS",

	// Audio
	"driver_size":        "Driver",
	"impedance":          "Impedance",
	"connectivity":       "Connectivity",
	"charging_time":      "Charging",
	"noise_cancellation": "Noise Cancellation",

	// Fashion
	"material": "Material",
	"fit":      "Fit",
	"pattern":  "Pattern",
	"sleeve":   "Sleeve",

	// Home & kitchen
	"capacity":   "Capacity",
	"power":      "Power",
	"dimensions": "Dimensions",
	"weight":     "Weight",
	"warranty":   "Warranty",
}

// FormatSpecifications turns a raw spec map into readable "Label: value"
// strings for the key_specs field. Keys are walked in sorted order so the
// output is stable across requests.
func FormatSpecifications(specs map[string]string) []string {
	if len(specs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var formatted []string
	for _, key := range keys {
		value := specs[key]
		if strings.TrimSpace(value) == "" {
			continue
		}
		label, ok := specLabels[strings.ToLower(key)]
		if !ok {
			label = titleCase(strings.ReplaceAll(key, "_", " "))
		}
		formatted = append(formatted, label+": "+value)
	}
	return formatted
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
