package ai

// WeatherSnapshot is the subset of weather readings the fallback tables key
// on. Zero values fall through to the moderate-weather band.
type WeatherSnapshot struct {
	Temperature   float64
	Precipitation float64
	Humidity      float64
	WindSpeed     float64
}

// OutfitItem matches the response shape the weather bot promises clients.
type OutfitItem struct {
	ClothName  string `json:"Cloth Name"`
	Category   string `json:"Category"`
	Benefit    string `json:"Why is it beneficial"`
	Price      string `json:"Price"`
	Popularity string `json:"Popularity"`
}

// Precaution is one weather-driven health precaution.
type Precaution struct {
	Precaution string `json:"Precaution"`
	Importance string `json:"Why is it important"`
}

// Medicine is one over-the-counter recommendation.
type Medicine struct {
	Name    string `json:"Medicine Name"`
	Purpose string `json:"Purpose"`
	Dosage  string `json:"Dosage"`
}

// HealthCard bundles precautions and medicines for the current weather.
type HealthCard struct {
	HealthPrecautions []Precaution `json:"HealthPrecautions"`
	MedicineList      []Medicine   `json:"MedicineList"`
}

// FallbackOutfits returns deterministic outfit recommendations for when the
// AI provider fails or produces an unusable response.
func FallbackOutfits(w WeatherSnapshot) []OutfitItem {
	switch {
	case w.Temperature > 30 && w.Precipitation == 0:
		return []OutfitItem{
			{"Cotton T-shirt", "Upperwear", "Lightweight and breathable fabric keeps you cool in hot weather", "₹300-₹800", "High"},
			{"Linen Shorts", "Lowerwear", "Allows air circulation and provides comfort in high temperatures", "₹600-₹1500", "High"},
			{"Sun Hat with Wide Brim", "Headwear", "Protects face and neck from direct sunlight and UV rays", "₹400-₹1200", "Medium"},
			{"Sports Sandals", "Footwear", "Ventilated design keeps feet cool and comfortable in heat", "₹800-₹2000", "High"},
		}
	case w.Temperature < 15:
		return []OutfitItem{
			{"Thermal Winter Jacket", "Outerwear", "Insulated design provides warmth and protection from cold winds", "₹2000-₹5000", "High"},
			{"Woolen Sweater", "Upperwear", "Natural wool fibers trap body heat effectively in cold conditions", "₹800-₹2500", "High"},
			{"Fleece-lined Pants", "Lowerwear", "Soft inner lining provides extra warmth and comfort in low temperatures", "₹1200-₹3000", "Medium"},
			{"Thermal Gloves", "Accessories", "Protects hands from cold and maintains finger dexterity", "₹300-₹900", "Medium"},
		}
	case w.Precipitation > 0:
		return []OutfitItem{
			{"Waterproof Rain Jacket", "Outerwear", "Keeps you dry during rainfall with sealed seams and water-resistant fabric", "₹1500-₹4000", "High"},
			{"Quick-dry Pants", "Lowerwear", "Special fabric dries quickly if it gets wet in the rain", "₹1000-₹2500", "Medium"},
			{"Waterproof Boots", "Footwear", "Prevents water seepage and keeps feet dry in wet conditions", "₹1200-₹3500", "High"},
			{"Compact Umbrella", "Accessories", "Essential protection from rain that can be carried easily", "₹200-₹600", "High"},
		}
	default:
		return []OutfitItem{
			{"Casual Cotton Shirt", "Upperwear", "Versatile and comfortable for moderate temperatures", "₹600-₹1500", "High"},
			{"Comfortable Jeans", "Lowerwear", "Durable and suitable for various activities in pleasant weather", "₹800-₹2000", "High"},
			{"Light Jacket", "Outerwear", "Perfect layer for temperature changes throughout the day", "₹1000-₹3000", "High"},
			{"Walking Shoes", "Footwear", "Comfortable for extended wear in pleasant weather conditions", "₹1200-₹3500", "High"},
		}
	}
}

// FallbackHealthCard returns deterministic precautions and medicines for
// when the AI provider fails or produces an unusable response.
func FallbackHealthCard(w WeatherSnapshot) HealthCard {
	switch {
	case w.Temperature > 30:
		return HealthCard{
			HealthPrecautions: []Precaution{
				{"Stay hydrated and drink plenty of water", "High temperatures can cause dehydration, heat exhaustion, and heat stroke. Proper hydration helps regulate body temperature."},
				{"Avoid direct sunlight during 10 AM to 4 PM", "UV rays are strongest during these hours, increasing risk of sunburn and heat-related illnesses."},
				{"Wear light-colored, loose-fitting cotton clothes", "Light colors reflect heat and loose clothing allows better air circulation to keep you cool."},
				{"Use sunscreen with SPF 30+", "Protects skin from harmful UV rays that can cause sunburn and increase skin cancer risk."},
			},
			MedicineList: []Medicine{
				{"Oral Rehydration Salts (ORS)", "Prevents and treats dehydration from heat exposure", "One packet dissolved in 1 liter of water, drink as needed"},
				{"Paracetamol", "Reduces fever and relieves body aches from heat exposure", "500 mg every 4-6 hours as needed, maximum 4 times daily"},
				{"Electrolyte powder", "Replenishes minerals lost through sweating", "As per package instructions when sweating excessively"},
			},
		}
	case w.Temperature < 15:
		return HealthCard{
			HealthPrecautions: []Precaution{
				{"Wear layered clothing for better insulation", "Layers trap body heat more effectively than single heavy garments and can be adjusted as needed."},
				{"Cover ears, hands, and feet properly", "Extremities lose heat fastest and are most vulnerable to frostbite in cold conditions."},
				{"Keep skin moisturized regularly", "Cold air lacks humidity and can cause dry skin, cracking, and irritation."},
				{"Ensure proper indoor ventilation when using heaters", "Prevents carbon monoxide buildup and maintains air quality while warming indoor spaces."},
			},
			MedicineList: []Medicine{
				{"Vitamin C supplements", "Boosts immune system during cold and flu season", "500-1000 mg daily with meals"},
				{"Cough syrup (Dextromethorphan)", "Relieves dry cough common in cold weather", "10-20 ml every 4-6 hours as needed"},
				{"Nasal saline spray", "Moisturizes dry nasal passages from cold air", "2-3 sprays in each nostril as needed"},
			},
		}
	case w.Precipitation > 0 || w.Humidity > 70:
		return HealthCard{
			HealthPrecautions: []Precaution{
				{"Always carry rain protection (umbrella/raincoat)", "Getting wet in rain can lower body temperature and increase susceptibility to colds and infections."},
				{"Avoid walking through stagnant water", "Stagnant water breeds mosquitoes and bacteria that can cause dengue, malaria, and skin infections."},
				{"Keep feet dry and change wet socks immediately", "Wet feet in closed shoes create ideal conditions for fungal infections like athlete's foot."},
				{"Use mosquito repellent regularly", "Humid and rainy conditions increase mosquito breeding, raising risk of vector-borne diseases."},
			},
			MedicineList: []Medicine{
				{"Antihistamine (Cetirizine)", "Controls allergy symptoms that often worsen in humid weather", "10 mg once daily in evening"},
				{"Antifungal powder (Clotrimazole)", "Prevents and treats fungal infections in moist conditions", "Apply to affected areas twice daily"},
				{"Antidiarrheal (Loperamide)", "Treats waterborne digestive issues common in rainy season", "4 mg initially, then 2 mg after each loose stool, maximum 16 mg daily"},
			},
		}
	default:
		return HealthCard{
			HealthPrecautions: []Precaution{
				{"Maintain regular outdoor exercise routine", "Pleasant weather provides ideal conditions for physical activity that boosts cardiovascular health and immunity."},
				{"Stay consistently hydrated throughout day", "Even in moderate temperatures, proper hydration is essential for organ function and overall wellness."},
				{"Apply sunscreen when spending time outdoors", "UV protection is necessary year-round to prevent skin damage and reduce skin cancer risk."},
				{"Eat seasonal fruits and vegetables", "Fresh produce provides essential vitamins and antioxidants that support immune function in current conditions."},
			},
			MedicineList: []Medicine{
				{"Multivitamin tablet", "General health maintenance and nutritional support", "Once daily with morning meal"},
				{"Pain reliever (Ibuprofen)", "Manages general body aches, pains, and inflammation", "200-400 mg every 6-8 hours as needed with food"},
				{"Probiotic supplements", "Supports digestive health and immune function", "As per package instructions, typically once daily"},
			},
		}
	}
}
