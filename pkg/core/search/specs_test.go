package search

import (
	"reflect"
	"testing"
)

func TestFormatSpecificationsLabels(t *testing.T) {
	specs := map[string]string{
		"ram":       "16GB",
		"processor": "Ryzen 7 5800H",
		"os":        "Windows 11",
	}

	got := FormatSpecifications(specs)
	want := []string{"OS: Windows 11", "Processor: Ryzen 7 5800H", "RAM: 16GB"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFormatSpecificationsUnknownKeyTitleCased(t *testing.T) {
	got := FormatSpecifications(map[string]string{"refresh_rate": "144Hz"})
	want := []string{"Refresh Rate: 144Hz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFormatSpecificationsSkipsBlankValues(t *testing.T) {
	got := FormatSpecifications(map[string]string{"ram": "  ", "storage": "512GB SSD"})
	want := []string{"Storage: 512GB SSD"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFormatSpecificationsEmpty(t *testing.T) {
	if got := FormatSpecifications(nil); got != nil {
		t.Errorf("expected nil for empty specs, got %v", got)
	}
}
