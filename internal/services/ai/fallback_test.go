package ai

import (
	"testing"
)

func TestFallbackOutfits_Bands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		w    WeatherSnapshot
		want string // first item name
	}{
		{"hot and dry", WeatherSnapshot{Temperature: 35}, "Cotton T-shirt"},
		{"cold", WeatherSnapshot{Temperature: 10}, "Thermal Winter Jacket"},
		{"rainy", WeatherSnapshot{Temperature: 25, Precipitation: 2}, "Waterproof Rain Jacket"},
		{"moderate", WeatherSnapshot{Temperature: 25}, "Casual Cotton Shirt"},
		{"hot but raining", WeatherSnapshot{Temperature: 35, Precipitation: 1}, "Waterproof Rain Jacket"},
	}

	for _, tt := range tests {
		items := FallbackOutfits(tt.w)
		if len(items) != 4 {
			t.Errorf("%s: expected 4 items, got %d", tt.name, len(items))
			continue
		}
		if items[0].ClothName != tt.want {
			t.Errorf("%s: expected first item %q, got %q", tt.name, tt.want, items[0].ClothName)
		}
	}
}

func TestFallbackHealthCard_HumidityBand(t *testing.T) {
	t.Parallel()

	card := FallbackHealthCard(WeatherSnapshot{Temperature: 25, Humidity: 85})
	if len(card.HealthPrecautions) != 4 || len(card.MedicineList) != 3 {
		t.Fatalf("Expected 4 precautions and 3 medicines, got %d/%d",
			len(card.HealthPrecautions), len(card.MedicineList))
	}
	if card.MedicineList[0].Name != "Antihistamine (Cetirizine)" {
		t.Errorf("Expected humid-weather medicines, got %q", card.MedicineList[0].Name)
	}
}
