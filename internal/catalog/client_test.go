package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const margaritaJSON = `{"drinks":[{
	"strDrink":"Margarita",
	"strDrinkThumb":"https://example.com/margarita.jpg",
	"strIngredient1":"Tequila","strMeasure1":"1 1/2 oz ",
	"strIngredient2":"Triple sec","strMeasure2":"1/2 oz ",
	"strIngredient3":"Lime juice","strMeasure3":"1 oz ",
	"strIngredient4":null,"strMeasure4":null
}]}`

func TestRandomDrinkParsesRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/random.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(margaritaJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	drink := client.RandomDrink(context.Background(), "")
	if drink == nil {
		t.Fatal("expected a drink, got nil")
	}

	if drink.Name != "Margarita" {
		t.Errorf("name = %q, want Margarita", drink.Name)
	}
	if drink.Thumb != "https://example.com/margarita.jpg" {
		t.Errorf("thumb = %q", drink.Thumb)
	}

	ingredients := drink.Ingredients()
	expected := []string{"tequila", "triple sec", "lime juice"}
	if len(ingredients) != len(expected) {
		t.Fatalf("ingredients = %v, want %v", ingredients, expected)
	}
	for i := range expected {
		if ingredients[i] != expected[i] {
			t.Errorf("ingredient %d = %q, want %q", i, ingredients[i], expected[i])
		}
	}
}

func TestRandomDrinkPassesCategoryFilter(t *testing.T) {
	var gotCategory string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategory = r.URL.Query().Get("c")
		w.Write([]byte(margaritaJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if drink := client.RandomDrink(context.Background(), "Non_Alcoholic"); drink == nil {
		t.Fatal("expected a drink")
	}
	if gotCategory != "Non_Alcoholic" {
		t.Errorf("category filter = %q, want Non_Alcoholic", gotCategory)
	}
}

func TestFailuresYieldNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "null drinks list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"drinks":null}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"drinks": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			if drink := client.SearchDrink(context.Background(), "margarita"); drink != nil {
				t.Errorf("expected nil drink, got %+v", drink)
			}
			if ing := client.LookupIngredient(context.Background(), "vodka"); ing != nil {
				t.Errorf("expected nil ingredient, got %+v", ing)
			}
		})
	}
}

func TestFailuresYieldNilWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, time.Second)
	if drink := client.RandomDrink(context.Background(), ""); drink != nil {
		t.Errorf("expected nil drink, got %+v", drink)
	}
}

func TestLookupIngredient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("i") {
		case "vodka":
			w.Write([]byte(`{"ingredients":[{"strIngredient":"Vodka","strType":"Vodka"}]}`))
		default:
			// the catalog signals "unknown ingredient" with a null list
			w.Write([]byte(`{"ingredients":null}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	ing := client.LookupIngredient(context.Background(), "vodka")
	if ing == nil {
		t.Fatal("expected ingredient, got nil")
	}
	if ing.Name != "Vodka" {
		t.Errorf("canonical name = %q, want Vodka", ing.Name)
	}
	if ing.ImageURL() != "https://www.thecocktaildb.com/images/ingredients/Vodka-Medium.png" {
		t.Errorf("image url = %q", ing.ImageURL())
	}

	if unknown := client.LookupIngredient(context.Background(), "unicorntear"); unknown != nil {
		t.Errorf("expected nil for unknown ingredient, got %+v", unknown)
	}
}
