package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"baggr-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateProvider(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)

	body := map[string]interface{}{
		"title":        "Luigi Trattoria",
		"category_id":  cat.ID,
		"phone_number": "+39 06 123456",
		"tags":         []string{"pizza", "pasta"},
	}
	w := env.do(authRequest("POST", "/providers/", body, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["slug"] != "luigi-trattoria" {
		t.Errorf("expected generated slug, got %v", resp["slug"])
	}
	if tags := resp["tags"].([]interface{}); len(tags) != 2 {
		t.Errorf("expected 2 tags, got %v", tags)
	}

	// A second provider with the same title gets a suffixed slug.
	w = env.do(authRequest("POST", "/providers/", body, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if s := parseResponse(w)["slug"]; s != "luigi-trattoria-2" {
		t.Errorf("expected suffixed slug, got %v", s)
	}
}

func TestCreateProviderValidation(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)

	w := env.do(authRequest("POST", "/providers/", map[string]interface{}{
		"title":       "Nowhere",
		"category_id": uuid.New(),
	}, staffHeader))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	fields, ok := parseResponse(w)["fields"].(map[string]interface{})
	if !ok || fields["category_id"] == nil {
		t.Errorf("expected category_id field error, got %s", w.Body.String())
	}

	w = env.do(authRequest("POST", "/providers/", map[string]interface{}{"title": "X"}, userHeader))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-staff, got %d", w.Code)
	}
}

func TestGetProvidersFilters(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)

	restaurants := seedCategory(t, env.Store, "Restaurants", nil)
	italian := seedCategory(t, env.Store, "Italian", &restaurants.ID)
	hotels := seedCategory(t, env.Store, "Hotels", nil)

	luigi := seedProvider(t, db, "Luigi", "luigi", italian.ID)
	seedProvider(t, db, "Grand Hotel", "grand-hotel", hotels.ID)
	hidden := seedProvider(t, db, "Closed Diner", "closed-diner", restaurants.ID)
	db.Model(hidden).Update("is_active", false)

	tag := models.Tag{Name: "pizza"}
	db.Create(&tag)
	db.Model(luigi).Association("Tags").Append(&tag)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?category=restaurants", 1},
		{"?category=" + italian.ID.String(), 1},
		{"?category=hotels", 1},
		{"?tag=pizza", 1},
		{"?search=grand", 1},
		{"?search=nothing", 0},
	}
	for _, tc := range tests {
		w := env.do(httptest.NewRequest("GET", "/providers/"+tc.query, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", tc.query, w.Code, w.Body.String())
		}
		resp := parseResponse(w)
		if int(resp["total"].(float64)) != tc.want {
			t.Errorf("%s: expected %d providers, got %v", tc.query, tc.want, resp["total"])
		}
	}

	w := env.do(httptest.NewRequest("GET", "/providers/?category=unknown", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %d", w.Code)
	}
}

func TestGetProvidersPagination(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	for i := 0; i < 5; i++ {
		seedProvider(t, db, "Place", uuid.NewString(), cat.ID)
	}

	w := env.do(httptest.NewRequest("GET", "/providers/?page=2&limit=2", nil))
	resp := parseResponse(w)
	if len(resp["providers"].([]interface{})) != 2 {
		t.Errorf("expected 2 providers on page 2")
	}
	if resp["pages"].(float64) != 3 {
		t.Errorf("expected 3 pages, got %v", resp["pages"])
	}
}

func TestGetProviderDetail(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	p := seedProvider(t, db, "Luigi", "luigi", cat.ID)

	db.Create(&models.Product{ProviderID: p.ID, Name: "Margherita", Category: "Pizza", Price: decimal.RequireFromString("9.50")})
	db.Create(&models.SocialLink{ProviderID: p.ID, SocialType: "instagram", URL: "https://instagram.com/luigi"})

	w := env.do(httptest.NewRequest("GET", "/providers/luigi", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["category"].(map[string]interface{})["name"] != "Restaurants" {
		t.Errorf("expected category in detail")
	}
	products := resp["products"].([]interface{})
	if len(products) != 1 || products[0].(map[string]interface{})["price"] != "9.5" {
		t.Errorf("unexpected products %v", products)
	}
	if len(resp["social_links"].([]interface{})) != 1 {
		t.Errorf("expected social links in detail")
	}
	for _, key := range []string{"images", "reviews", "specification_values"} {
		if _, ok := resp[key].([]interface{}); !ok {
			t.Errorf("expected %s to be an array", key)
		}
	}

	db.Model(p).Update("is_active", false)
	w = env.do(httptest.NewRequest("GET", "/providers/luigi", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected inactive provider to be hidden, got %d", w.Code)
	}
}

func TestUpdateProvider(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	seedProvider(t, db, "Luigi", "luigi", cat.ID)
	seedProvider(t, db, "Mario", "mario", cat.ID)

	w := env.do(authRequest("PATCH", "/providers/luigi", map[string]interface{}{"title": "Luigi's", "address": "Via Roma 1"}, staffHeader))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["title"] != "Luigi's" || resp["address"] != "Via Roma 1" || resp["slug"] != "luigi" {
		t.Errorf("unexpected update result %v", resp)
	}

	w = env.do(authRequest("PATCH", "/providers/luigi", map[string]interface{}{"slug": "mario"}, staffHeader))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 on slug clash, got %d", w.Code)
	}

	w = env.do(authRequest("PATCH", "/providers/nobody", map[string]interface{}{"title": "x"}, staffHeader))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDeleteProviderCascades(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	p := seedProvider(t, db, "Luigi", "luigi", cat.ID)

	db.Create(&models.ServiceProviderImage{ProviderID: p.ID, ImageURL: "https://storage.googleapis.com/b/images/service_providers/a.jpg", ObjectPath: "images/service_providers/a.jpg"})
	db.Create(&models.Review{ProviderID: p.ID, UserID: uuid.New(), Rating: 5, Comment: "great"})

	w := env.do(authRequest("DELETE", "/providers/luigi", nil, staffHeader))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.Review{}).Where("provider_id = ?", p.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected reviews removed with provider")
	}
	if len(env.Storage.DeleteFileCalls) != 1 || env.Storage.DeleteFileCalls[0] != "images/service_providers/a.jpg" {
		t.Errorf("expected stored image to be deleted, got %v", env.Storage.DeleteFileCalls)
	}
}

func TestProviderImages(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	p := seedProvider(t, db, "Luigi", "luigi", cat.ID)

	w := env.do(multipartRequest("POST", "/providers/luigi/images", map[string]string{"is_feature": "true", "alt_text": "Front"}, map[string]string{"image": "front.jpg"}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	first := parseResponse(w)

	w = env.do(multipartRequest("POST", "/providers/luigi/images", map[string]string{"is_feature": "true"}, map[string]string{"image": "inside.jpg"}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var features int64
	db.Model(&models.ServiceProviderImage{}).Where("provider_id = ? AND is_feature = ?", p.ID, true).Count(&features)
	if features != 1 {
		t.Errorf("expected exactly one feature image, got %d", features)
	}

	w = env.do(authRequest("DELETE", "/providers/luigi/images/"+first["id"].(string), nil, staffHeader))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.Storage.DeleteFileCalls) != 1 {
		t.Errorf("expected stored file removal, got %v", env.Storage.DeleteFileCalls)
	}

	w = env.do(multipartRequest("POST", "/providers/luigi/images", nil, nil, staffHeader))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a file, got %d", w.Code)
	}
}

func TestProviderImageUploadFailure(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	seedProvider(t, db, "Luigi", "luigi", cat.ID)
	env.Storage.UploadFn = func(folder, filename string) (string, error) {
		return "", errors.New("bucket unavailable")
	}

	w := env.do(multipartRequest("POST", "/providers/luigi/images", nil, map[string]string{"image": "front.jpg"}, staffHeader))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	var count int64
	db.Model(&models.ServiceProviderImage{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no image row after failed upload")
	}
}

func TestProviderProducts(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	seedProvider(t, db, "Luigi", "luigi", cat.ID)

	// Multipart with an uploaded image.
	w := env.do(multipartRequest("POST", "/providers/luigi/products",
		map[string]string{"name": "Margherita", "category": "Pizza", "price": "9.499"},
		map[string]string{"image": "pizza.jpg"}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	product := parseResponse(w)
	if product["price"] != "9.5" {
		t.Errorf("expected price rounded to 2 places, got %v", product["price"])
	}
	if env.Storage.UploadCallCount != 1 {
		t.Errorf("expected one upload, got %d", env.Storage.UploadCallCount)
	}

	// JSON with an image URL to import.
	w = env.do(authRequest("POST", "/providers/luigi/products", map[string]interface{}{
		"name": "Carbonara", "category": "Pasta", "price": "12.00", "image_url": "https://example.com/carbonara.jpg",
	}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.Storage.ImportCalls) != 1 {
		t.Errorf("expected image import, got %v", env.Storage.ImportCalls)
	}

	// No image at all falls back to the placeholder.
	w = env.do(authRequest("POST", "/providers/luigi/products", map[string]interface{}{
		"name": "Water", "category": "Drinks", "price": 1.5,
	}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if img := parseResponse(w)["image"]; img != models.DefaultProductImage {
		t.Errorf("expected default image, got %v", img)
	}

	w = env.do(authRequest("POST", "/providers/luigi/products", map[string]interface{}{
		"name": "Free", "category": "Drinks", "price": 0,
	}, staffHeader))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero price, got %d", w.Code)
	}

	id := product["id"].(string)
	w = env.do(authRequest("PATCH", "/providers/luigi/products/"+id, map[string]interface{}{"price": "10.25"}, staffHeader))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if parseResponse(w)["price"] != "10.25" {
		t.Errorf("expected updated price, got %s", w.Body.String())
	}

	w = env.do(authRequest("DELETE", "/providers/luigi/products/"+id, nil, staffHeader))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(env.Storage.DeleteFileCalls) != 1 {
		t.Errorf("expected product image removal, got %v", env.Storage.DeleteFileCalls)
	}
}

func TestProviderSocialLinks(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	seedProvider(t, db, "Luigi", "luigi", cat.ID)

	w := env.do(authRequest("POST", "/providers/luigi/social-links", map[string]interface{}{"social_type": "myspace", "url": "https://myspace.com/luigi"}, staffHeader))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown social type, got %d", w.Code)
	}

	w = env.do(authRequest("POST", "/providers/luigi/social-links", map[string]interface{}{"url": "https://facebook.com/luigi"}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	link := parseResponse(w)
	if link["social_type"] != "facebook" {
		t.Errorf("expected default facebook, got %v", link["social_type"])
	}

	w = env.do(authRequest("DELETE", "/providers/luigi/social-links/"+link["id"].(string), nil, staffHeader))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestProviderSpecificationValues(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	p := seedProvider(t, db, "Luigi", "luigi", cat.ID)

	restaurant := models.ServiceProviderType{Name: "Restaurant", IsActive: true}
	hotel := models.ServiceProviderType{Name: "Hotel", IsActive: true}
	db.Create(&restaurant)
	db.Create(&hotel)
	seats := models.Specification{TypeID: restaurant.ID, Name: "Seats"}
	stars := models.Specification{TypeID: hotel.ID, Name: "Stars"}
	db.Create(&seats)
	db.Create(&stars)
	db.Model(p).Update("type_id", restaurant.ID)

	w := env.do(authRequest("PUT", "/providers/luigi/specifications", map[string]interface{}{"specification_id": stars.ID, "value": "5"}, staffHeader))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a specification of another type, got %d", w.Code)
	}

	w = env.do(authRequest("PUT", "/providers/luigi/specifications", map[string]interface{}{"specification_id": seats.ID, "value": "40"}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = env.do(authRequest("PUT", "/providers/luigi/specifications", map[string]interface{}{"specification_id": seats.ID, "value": "60"}, staffHeader))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on replace, got %d: %s", w.Code, w.Body.String())
	}

	var values []models.SpecificationValue
	db.Where("provider_id = ?", p.ID).Find(&values)
	if len(values) != 1 || values[0].Value != "60" {
		t.Errorf("expected one value of 60, got %+v", values)
	}

	w = env.do(authRequest("DELETE", "/providers/luigi/specifications/"+values[0].ID.String(), nil, staffHeader))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestProviderSetTags(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	p := seedProvider(t, db, "Luigi", "luigi", cat.ID)

	w := env.do(authRequest("PUT", "/providers/luigi/tags", map[string]interface{}{"tags": []string{"pizza", "wine"}}, staffHeader))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = env.do(authRequest("PUT", "/providers/luigi/tags", map[string]interface{}{"tags": []string{"wine"}}, staffHeader))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if n := db.Model(p).Association("Tags").Count(); n != 1 {
		t.Errorf("expected tag set replaced, got %d tags", n)
	}
	var total int64
	db.Model(&models.Tag{}).Count(&total)
	if total != 2 {
		t.Errorf("expected unlinked tag to survive, got %d", total)
	}
}

func TestProviderPins(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	seedProvider(t, db, "Luigi", "luigi", cat.ID)

	w := env.do(authRequest("POST", "/providers/luigi/pin", nil, ""))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 when anonymous, got %d", w.Code)
	}

	w = env.do(authRequest("POST", "/providers/luigi/pin", nil, userHeader))
	if w.Code != http.StatusOK || parseResponse(w)["pinned_count"].(float64) != 1 {
		t.Fatalf("expected pinned_count 1, got %d: %s", w.Code, w.Body.String())
	}

	for i := 0; i < 2; i++ {
		w = env.do(authRequest("DELETE", "/providers/luigi/pin", nil, userHeader))
	}
	if parseResponse(w)["pinned_count"].(float64) != 0 {
		t.Errorf("expected pinned_count to stop at 0, got %s", w.Body.String())
	}
}

func TestUpdateProviderTypeWithSpecificationValues(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Fitness", nil)
	p := seedProvider(t, db, "Iron Works", "iron-works", cat.ID)

	gym := models.ServiceProviderType{Name: "Gym", IsActive: true}
	spa := models.ServiceProviderType{Name: "Spa", IsActive: true}
	db.Create(&gym)
	db.Create(&spa)
	hours := models.Specification{TypeID: gym.ID, Name: "Hours"}
	db.Create(&hours)
	db.Model(p).Update("type_id", gym.ID)

	w := env.do(authRequest("PUT", "/providers/iron-works/specifications", map[string]interface{}{"specification_id": hours.ID, "value": "6-22"}, staffHeader))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(authRequest("PATCH", "/providers/iron-works", map[string]interface{}{"type_id": spa.ID, "title": "Iron Spa"}, staffHeader))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 while values of the old type remain, got %d: %s", w.Code, w.Body.String())
	}
	fields, ok := parseResponse(w)["fields"].(map[string]interface{})
	if !ok || fields["type_id"] == nil {
		t.Errorf("expected type_id field error, got %s", w.Body.String())
	}

	var stored models.ServiceProvider
	db.First(&stored, "id = ?", p.ID)
	if stored.TypeID == nil || *stored.TypeID != gym.ID || stored.Title != "Iron Works" {
		t.Errorf("expected provider untouched, got %+v", stored)
	}

	var mismatched int64
	db.Model(&models.SpecificationValue{}).
		Joins("JOIN service_provider_specifications AS specs ON specs.id = service_provider_specification_values.specification_id").
		Joins("JOIN service_providers ON service_providers.id = service_provider_specification_values.provider_id").
		Where("specs.type_id <> service_providers.type_id").
		Count(&mismatched)
	if mismatched != 0 {
		t.Errorf("expected no values of a foreign type, got %d", mismatched)
	}

	var values []models.SpecificationValue
	db.Where("provider_id = ?", p.ID).Find(&values)
	w = env.do(authRequest("DELETE", "/providers/iron-works/specifications/"+values[0].ID.String(), nil, staffHeader))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = env.do(authRequest("PATCH", "/providers/iron-works", map[string]interface{}{"type_id": spa.ID}, staffHeader))
	if w.Code != http.StatusOK {
		t.Errorf("expected type change once the values are gone, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProviderRejectsInactiveCategory(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	open := seedCategory(t, env.Store, "Open", nil)
	gone := seedCategory(t, env.Store, "Gone", nil)
	seedProvider(t, db, "Luigi", "luigi", open.ID)

	w := env.do(authRequest("PATCH", "/categories/"+gone.ID.String(), map[string]interface{}{"is_active": false}, staffHeader))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on deactivate, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(authRequest("POST", "/providers/", map[string]interface{}{"title": "Ghost", "category_id": gone.ID}, staffHeader))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an inactive category, got %d: %s", w.Code, w.Body.String())
	}
	fields, ok := parseResponse(w)["fields"].(map[string]interface{})
	if !ok || fields["category_id"] == nil {
		t.Errorf("expected category_id field error, got %s", w.Body.String())
	}

	w = env.do(authRequest("PATCH", "/providers/luigi", map[string]interface{}{"category_id": gone.ID}, staffHeader))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when moving into an inactive category, got %d", w.Code)
	}

	var count int64
	db.Model(&models.ServiceProvider{}).Where("category_id = ?", gone.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no provider under the inactive category, got %d", count)
	}
}

func TestProductPutRouteMatchesPatch(t *testing.T) {
	db := freshDB()
	env := setupDirectoryRouter(db)
	cat := seedCategory(t, env.Store, "Restaurants", nil)
	p := seedProvider(t, db, "Luigi", "luigi", cat.ID)
	product := models.Product{ProviderID: p.ID, Name: "Margherita", Category: "Pizza", Price: decimal.RequireFromString("8")}
	db.Create(&product)

	w := env.do(authRequest("PUT", "/providers/luigi/products/"+product.ID.String(), map[string]interface{}{"name": "Marinara"}, userHeader))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-staff, got %d", w.Code)
	}
	w = env.do(authRequest("PUT", "/providers/luigi/products/"+product.ID.String(), map[string]interface{}{"name": "Marinara"}, staffHeader))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var stored models.Product
	db.First(&stored, "id = ?", product.ID)
	if stored.Name != "Marinara" {
		t.Errorf("expected renamed product, got %q", stored.Name)
	}
}
