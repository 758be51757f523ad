package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"baggr-backend/models"

	"github.com/google/uuid"
)

func TestProviderTypes(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)

	w := env.do(authRequest("POST", "/provider-types/", map[string]interface{}{"name": "Restaurant"}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	typeID := parseResponse(w)["id"].(string)

	w = env.do(authRequest("POST", "/provider-types/", map[string]interface{}{"name": "Restaurant"}, staffHeader))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate name, got %d", w.Code)
	}

	w = env.do(authRequest("POST", "/provider-types/", map[string]interface{}{"name": "Hotel", "is_active": false}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w = env.do(authRequest("POST", "/provider-types/"+typeID+"/specifications", map[string]interface{}{"name": "Seats"}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = env.do(authRequest("POST", "/provider-types/"+typeID+"/specifications", map[string]interface{}{"name": "Seats"}, staffHeader))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate specification, got %d", w.Code)
	}
	w = env.do(authRequest("POST", "/provider-types/"+uuid.NewString()+"/specifications", map[string]interface{}{"name": "Seats"}, staffHeader))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown type, got %d", w.Code)
	}

	w = env.do(httptest.NewRequest("GET", "/provider-types/?active=true", nil))
	if types := parseResponseArray(w); len(types) != 1 {
		t.Errorf("expected only the active type, got %d", len(types))
	}

	w = env.do(httptest.NewRequest("GET", "/provider-types/"+typeID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	specs := parseResponse(w)["specifications"].([]interface{})
	if len(specs) != 1 || specs[0].(map[string]interface{})["name"] != "Seats" {
		t.Errorf("expected Seats specification, got %v", specs)
	}
}

func TestProviderTypeRequiresStaff(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)

	w := env.do(authRequest("POST", "/provider-types/", map[string]interface{}{"name": "Restaurant"}, userHeader))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	var count int64
	db.Model(&models.ServiceProviderType{}).Count(&count)
	if count != 0 {
		t.Errorf("expected nothing written, got %d", count)
	}
}

func TestTags(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	p := seedProvider(t, db, "Luigi", "luigi", cat.ID)

	w := env.do(authRequest("POST", "/tags/", map[string]interface{}{"name": " pizza "}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	tag := parseResponse(w)
	if tag["name"] != "pizza" {
		t.Errorf("expected trimmed name, got %v", tag["name"])
	}

	w = env.do(authRequest("POST", "/tags/", map[string]interface{}{"name": "pizza"}, staffHeader))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}

	env.do(authRequest("POST", "/tags/", map[string]interface{}{"name": "wine"}, staffHeader))
	w = env.do(httptest.NewRequest("GET", "/tags/?search=piz", nil))
	if tags := parseResponseArray(w); len(tags) != 1 {
		t.Errorf("expected search to match one tag, got %d", len(tags))
	}

	var pizza models.Tag
	db.First(&pizza, "name = ?", "pizza")
	db.Model(p).Association("Tags").Append(&pizza)

	w = env.do(authRequest("DELETE", "/tags/"+pizza.ID.String(), nil, staffHeader))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if n := db.Model(p).Association("Tags").Count(); n != 0 {
		t.Errorf("expected tag unlinked from provider, got %d", n)
	}

	w = env.do(authRequest("DELETE", "/tags/"+pizza.ID.String(), nil, staffHeader))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
