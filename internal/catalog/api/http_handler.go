package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokamart/e-commerce-api/internal/catalog/domain"
	"github.com/lokamart/e-commerce-api/internal/catalog/repository"
	"github.com/lokamart/e-commerce-api/internal/catalog/service"
	"github.com/lokamart/e-commerce-api/internal/platform/logger"
	"github.com/lokamart/e-commerce-api/internal/platform/web"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(ps service.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/:id", h.GetProduct)
	}
	categoryRoutes := router.Group("/categories")
	{
		categoryRoutes.GET("", h.ListCategories)
	}
}

func (h *ProductHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.AdminListProducts)
		productRoutes.GET("/:id", h.AdminGetProduct)
		productRoutes.POST("", h.CreateProduct)
		productRoutes.PUT("/:id", h.UpdateProduct)
		productRoutes.DELETE("/:id", h.DeleteProduct)
	}
	categoryRoutes := router.Group("/categories")
	{
		categoryRoutes.POST("", h.CreateCategory)
	}
}

func listQueryFromContext(c *gin.Context) domain.ListProductsQuery {
	return domain.ListProductsQuery{
		CategoryID: c.Query("categoryId"),
		Search:     c.Query("search"),
		Page:       web.QueryInt(c, "page", 1),
		Limit:      web.QueryInt(c, "limit", 20),
		Sort:       c.DefaultQuery("sort", "createdAt"),
		Order:      c.DefaultQuery("order", "desc"),
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	q := listQueryFromContext(c)
	products, total, err := h.productService.ListProducts(c.Request.Context(), q)
	if err != nil {
		logger.Error("ListProducts: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	web.OKList(c, products, web.NewPagination(q.Page, q.Limit, total))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProductDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			web.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("GetProduct: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	web.OK(c, product)
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error("ListCategories: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	web.OK(c, categories)
}

func (h *ProductHandler) AdminListProducts(c *gin.Context) {
	q := listQueryFromContext(c)
	products, total, err := h.productService.AdminListProducts(c.Request.Context(), q)
	if err != nil {
		logger.Error("AdminListProducts: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	web.OKList(c, products, web.NewPagination(q.Page, q.Limit, total))
}

func (h *ProductHandler) AdminGetProduct(c *gin.Context) {
	product, err := h.productService.AdminGetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			web.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("AdminGetProduct: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	web.OK(c, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			web.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("CreateProduct: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to create product")
		return
	}
	web.Created(c, product, "Product created")
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			web.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			web.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("UpdateProduct: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	web.OKWithMessage(c, product, "Product updated")
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			web.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("DeleteProduct: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	web.OKWithMessage(c, nil, "Product deleted")
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	cat, err := h.productService.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		logger.Error("CreateCategory: service error", err)
		web.Fail(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	web.Created(c, cat, "Category created")
}
