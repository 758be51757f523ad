package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"baggr-backend/dtos"
	"baggr-backend/firebase"
	"baggr-backend/models"
	"baggr-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var maxProductPrice = decimal.New(1, 8)

// findChild loads a row owned by the provider.
func findChild(tx *gorm.DB, dest interface{}, id, providerID uuid.UUID, what string) error {
	err := tx.Where("id = ? AND provider_id = ?", id, providerID).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.NewNotFound(what)
	}
	return err
}

// AddImage uploads an image for a provider. Marking it as the feature image
// clears the flag on the provider's other images.
func (h *ProviderHandler) AddImage(c *gin.Context) {
	ctx := c.Request.Context()
	provider, err := services.FindProvider(h.DB.WithContext(ctx), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	stored, err := storeUpload(ctx, h.Storage, firebase.FolderProviderImages, "image", fh)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	isFeature, _ := strconv.ParseBool(c.DefaultPostForm("is_feature", "false"))
	img := models.ServiceProviderImage{
		ProviderID: provider.ID,
		ImageURL:   stored.URL,
		ObjectPath: stored.Path,
		IsFeature:  isFeature,
	}
	if alt := strings.TrimSpace(c.PostForm("alt_text")); alt != "" {
		img.AltText = &alt
	}

	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if img.IsFeature {
			if err := tx.Model(&models.ServiceProviderImage{}).
				Where("provider_id = ?", provider.ID).
				Update("is_feature", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&img).Error
	})
	if err != nil {
		h.deleteFiles(ctx, stored.Path)
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, img)
}

func (h *ProviderHandler) DeleteImage(c *gin.Context) {
	ctx := c.Request.Context()
	imageID, ok := parseUUIDParam(c, "imageId", "image")
	if !ok {
		return
	}

	var img models.ServiceProviderImage
	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		if err := findChild(tx, &img, imageID, provider.ID, "image"); err != nil {
			return err
		}
		return tx.Delete(&img).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.deleteFiles(ctx, img.ObjectPath)
	c.Status(http.StatusNoContent)
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return services.NewFieldError("price", "Price must be greater than zero")
	}
	if price.GreaterThanOrEqual(maxProductPrice) {
		return services.NewFieldError("price", "Price must have at most 8 digits before the decimal point")
	}
	return nil
}

// bindProductForm reads a product from JSON or from multipart form data.
// In the multipart case an "image" file may accompany it.
func bindProductForm(c *gin.Context) (dtos.ProductForm, bool) {
	var form dtos.ProductForm
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&form); err != nil {
			bindError(c, err)
			return form, false
		}
		price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
		if err != nil {
			respondError(c, services.NewFieldError("price", "Price must be a decimal number"))
			return form, false
		}
		form.Price = price
	} else if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return form, false
	}

	if err := validatePrice(form.Price); err != nil {
		respondError(c, err)
		return form, false
	}
	form.Price = form.Price.Round(2)
	return form, true
}

// AddProduct creates a product. The image is an uploaded file, an
// image_url to import, or the default placeholder.
func (h *ProviderHandler) AddProduct(c *gin.Context) {
	ctx := c.Request.Context()
	provider, err := services.FindProvider(h.DB.WithContext(ctx), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	form, ok := bindProductForm(c)
	if !ok {
		return
	}

	var stored storedFile
	if fh, err := c.FormFile("image"); err == nil {
		stored, err = storeUpload(ctx, h.Storage, firebase.FolderProducts, "image", fh)
		if err != nil {
			respondUploadError(c, err)
			return
		}
	} else if form.ImageURL != "" {
		stored, err = importImage(ctx, h.Storage, firebase.FolderProducts, "image_url", form.ImageURL)
		if err != nil {
			respondUploadError(c, err)
			return
		}
	}

	product := models.Product{
		ProviderID:  provider.ID,
		Name:        form.Name,
		Category:    form.Category,
		Image:       stored.URL,
		ImagePath:   stored.Path,
		Price:       form.Price,
		Description: form.Description,
	}
	if err := h.DB.WithContext(ctx).Create(&product).Error; err != nil {
		h.deleteFiles(ctx, stored.Path)
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProviderHandler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	productID, ok := parseUUIDParam(c, "productId", "product")
	if !ok {
		return
	}

	var req dtos.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			respondError(c, err)
			return
		}
	}

	var product models.Product
	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		if err := findChild(tx, &product, productID, provider.ID, "product"); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Category != nil {
			updates["category"] = *req.Category
		}
		if req.Price != nil {
			updates["price"] = req.Price.Round(2)
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&product).Updates(updates).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.DB.WithContext(ctx).First(&product, "id = ?", product.ID).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProviderHandler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	productID, ok := parseUUIDParam(c, "productId", "product")
	if !ok {
		return
	}

	var product models.Product
	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		provider, err := services.FindProvider(tx, c.Param("slug"))
		if err != nil {
			return err
		}
		if err := findChild(tx, &product, productID, provider.ID, "product"); err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.deleteFiles(ctx, product.ImagePath)
	c.Status(http.StatusNoContent)
}
