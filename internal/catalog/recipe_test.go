package catalog

import (
	"testing"
)

func TestIngredients(t *testing.T) {
	tests := []struct {
		name     string
		drink    Drink
		expected []string
	}{
		{
			name:     "empty drink",
			drink:    Drink{Name: "Ghost"},
			expected: nil,
		},
		{
			name: "trims and lowercases",
			drink: drinkWithSlots(map[int]IngredientSlot{
				0: {Name: " Gin "},
				1: {Name: "Lime Juice"},
			}),
			expected: []string{"gin", "lime juice"},
		},
		{
			name: "skips gaps but keeps slot order",
			drink: drinkWithSlots(map[int]IngredientSlot{
				0:  {Name: "Gin"},
				4:  {Name: "Lime"},
				14: {Name: "Soda Water"},
			}),
			expected: []string{"gin", "lime", "soda water"},
		},
		{
			name: "whitespace-only slot is empty",
			drink: drinkWithSlots(map[int]IngredientSlot{
				0: {Name: "   "},
				1: {Name: "Rum"},
			}),
			expected: []string{"rum"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.drink.Ingredients()
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("position %d: got %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestIngredientsWithMeasures(t *testing.T) {
	drink := drinkWithSlots(map[int]IngredientSlot{
		0: {Name: "Gin", Measure: " 2 oz "},
		1: {Name: "Lime Juice"},
		3: {Name: " Soda Water ", Measure: "Top up"},
	})

	got := drink.IngredientsWithMeasures()
	expected := []string{"2 oz Gin", "Lime Juice", "Top up Soda Water"}

	if len(got) != len(expected) {
		t.Fatalf("got %v, want %v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], expected[i])
		}
	}
}

func drinkWithSlots(slots map[int]IngredientSlot) Drink {
	var d Drink
	for i, slot := range slots {
		d.Slots[i] = slot
	}
	return d
}
