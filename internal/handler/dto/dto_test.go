package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/simmer/simmer/internal/model"
)

func TestToRecipeDetailResponse_PriceFixedTwoDecimals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		price string
		want  string
	}{
		{"integer", "5", "5.00"},
		{"one decimal", "5.5", "5.50"},
		{"two decimals", "5.55", "5.55"},
		{"zero", "0", "0.00"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recipe := &model.Recipe{
				ID:    "r1",
				Title: "Soup",
				Price: decimal.RequireFromString(tt.price),
			}

			resp := ToRecipeDetailResponse(recipe, "/media")
			if resp.Price != tt.want {
				t.Errorf("Price = %s, want %s", resp.Price, tt.want)
			}
		})
	}
}

func TestToRecipeDetailResponse_EmptyCollections(t *testing.T) {
	t.Parallel()

	recipe := &model.Recipe{ID: "r1", Title: "Soup", Price: decimal.Zero}

	resp := ToRecipeDetailResponse(recipe, "/media")

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Empty collections serialize as [], never null.
	if strings.Contains(string(body), `"tags":null`) {
		t.Error("tags should serialize as [] when empty")
	}
	if strings.Contains(string(body), `"ingredients":null`) {
		t.Error("ingredients should serialize as [] when empty")
	}
}

func TestToRecipeSummaryResponse_ImageURL(t *testing.T) {
	t.Parallel()

	recipe := &model.Recipe{ID: "r1", Title: "Soup", Price: decimal.Zero}

	resp := ToRecipeSummaryResponse(recipe, "/media")
	if resp.ImageURL != nil {
		t.Errorf("expected nil ImageURL without an upload, got %v", *resp.ImageURL)
	}

	path := "recipes/r1-abc.jpg"
	recipe.ImagePath = &path

	resp = ToRecipeSummaryResponse(recipe, "/media")
	if resp.ImageURL == nil {
		t.Fatal("expected ImageURL after upload")
	}
	if *resp.ImageURL != "/media/recipes/r1-abc.jpg" {
		t.Errorf("ImageURL = %s, want /media/recipes/r1-abc.jpg", *resp.ImageURL)
	}
}

func TestToTagListResponse_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	out := ToTagListResponse(nil)
	if out == nil {
		t.Fatal("expected non-nil slice for empty input")
	}

	body, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestUserResponse_NeverContainsPassword(t *testing.T) {
	t.Parallel()

	user := &model.User{
		ID:           "u1",
		Email:        "chef@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$salt$hash",
		Name:         "Chef",
	}

	body, err := json.Marshal(ToUserResponse(user))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if strings.Contains(string(body), "argon2id") || strings.Contains(string(body), "password") {
		t.Errorf("response should never contain password material: %s", body)
	}
}

func TestUpdateRecipeRequest_DistinguishesOmittedFromEmpty(t *testing.T) {
	t.Parallel()

	var omitted UpdateRecipeRequest
	if err := json.Unmarshal([]byte(`{"title":"New"}`), &omitted); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if omitted.Tags != nil {
		t.Error("omitted tags should decode as nil")
	}

	var empty UpdateRecipeRequest
	if err := json.Unmarshal([]byte(`{"title":"New","tags":[]}`), &empty); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if empty.Tags == nil {
		t.Fatal("explicit empty tags should decode as a non-nil slice")
	}
	if len(*empty.Tags) != 0 {
		t.Errorf("expected empty slice, got %v", *empty.Tags)
	}
}

func TestCreateRecipeRequest_PriceAcceptsNumberAndString(t *testing.T) {
	t.Parallel()

	var fromNumber CreateRecipeRequest
	if err := json.Unmarshal([]byte(`{"title":"Soup","time_in_minutes":5,"price":5.25}`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number price failed: %v", err)
	}
	if fromNumber.Price == nil || fromNumber.Price.StringFixed(2) != "5.25" {
		t.Errorf("unexpected price from number: %v", fromNumber.Price)
	}

	var fromString CreateRecipeRequest
	if err := json.Unmarshal([]byte(`{"title":"Soup","time_in_minutes":5,"price":"5.25"}`), &fromString); err != nil {
		t.Fatalf("unmarshal string price failed: %v", err)
	}
	if fromString.Price == nil || fromString.Price.StringFixed(2) != "5.25" {
		t.Errorf("unexpected price from string: %v", fromString.Price)
	}

	var bad CreateRecipeRequest
	if err := json.Unmarshal([]byte(`{"title":"Soup","price":"not-a-number"}`), &bad); err == nil {
		t.Error("expected error for non-numeric price")
	}
}
