// Package catalog is a read-only client for TheCocktailDB JSON API.
//
// Every lookup is best-effort: a transport error, timeout, non-2xx status or
// malformed body yields a nil result, never an error. Callers treat nil as
// "not found / feedback unavailable" and keep playing.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public TheCocktailDB v1 endpoint
const DefaultBaseURL = "https://www.thecocktaildb.com/api/json/v1/1"

const defaultTimeout = 5 * time.Second

// maxSlots is the number of numbered ingredient/measure field pairs a drink
// record carries (strIngredient1..15, strMeasure1..15)
const maxSlots = 15

// IngredientSlot is one (ingredient, measure) pair of a drink record.
// Empty Name means the slot is unused.
type IngredientSlot struct {
	Name    string
	Measure string
}

// Drink is a cocktail record with the external numbered-field schema already
// folded into a fixed slot array
type Drink struct {
	Name  string
	Thumb string
	Slots [maxSlots]IngredientSlot
}

// Ingredient is an ingredient record from the catalog's ingredient search
type Ingredient struct {
	Name string
}

// ImageURL returns the catalog's medium-size image for the ingredient
func (i *Ingredient) ImageURL() string {
	return fmt.Sprintf("https://www.thecocktaildb.com/images/ingredients/%s-Medium.png", url.PathEscape(i.Name))
}

// Client fetches drinks and ingredients from the catalog
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client. An empty baseURL selects the public
// endpoint; a zero timeout selects the default of five seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RandomDrink fetches a random drink, optionally filtered by category
// (e.g. "Non_Alcoholic"). Returns nil when no drink could be fetched.
func (c *Client) RandomDrink(ctx context.Context, category string) *Drink {
	params := url.Values{}
	if category != "" {
		params.Set("c", category)
	}
	return c.fetchDrink(ctx, "/random.php", params)
}

// SearchDrink searches drinks by name and returns the first match, or nil
func (c *Client) SearchDrink(ctx context.Context, term string) *Drink {
	params := url.Values{}
	params.Set("s", term)
	return c.fetchDrink(ctx, "/search.php", params)
}

// LookupIngredient searches the ingredient catalog by name. A non-nil result
// carries the canonical display name; nil means unknown or unavailable.
func (c *Client) LookupIngredient(ctx context.Context, name string) *Ingredient {
	params := url.Values{}
	params.Set("i", name)

	var payload struct {
		Ingredients []struct {
			Name string `json:"strIngredient"`
		} `json:"ingredients"`
	}
	if !c.getJSON(ctx, "/search.php", params, &payload) {
		return nil
	}
	if len(payload.Ingredients) == 0 || payload.Ingredients[0].Name == "" {
		return nil
	}
	return &Ingredient{Name: payload.Ingredients[0].Name}
}

func (c *Client) fetchDrink(ctx context.Context, path string, params url.Values) *Drink {
	// Drink records are loosely typed string-keyed maps with numbered
	// ingredient fields; decode generically, then fold into slots once.
	var payload struct {
		Drinks []map[string]any `json:"drinks"`
	}
	if !c.getJSON(ctx, path, params, &payload) {
		return nil
	}
	if len(payload.Drinks) == 0 {
		return nil
	}
	return drinkFromRecord(payload.Drinks[0])
}

// getJSON performs a GET and decodes the body. Returns false on any failure.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) bool {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	return json.NewDecoder(resp.Body).Decode(v) == nil
}

// drinkFromRecord folds a raw catalog record into a Drink, isolating the
// strIngredientN/strMeasureN schema from the rest of the application
func drinkFromRecord(record map[string]any) *Drink {
	d := &Drink{
		Name:  stringField(record, "strDrink"),
		Thumb: stringField(record, "strDrinkThumb"),
	}
	for i := 0; i < maxSlots; i++ {
		d.Slots[i] = IngredientSlot{
			Name:    stringField(record, fmt.Sprintf("strIngredient%d", i+1)),
			Measure: stringField(record, fmt.Sprintf("strMeasure%d", i+1)),
		}
	}
	return d
}

// stringField reads a string value from a record, treating null and missing
// fields as empty
func stringField(record map[string]any, key string) string {
	s, _ := record[key].(string)
	return s
}
