package apihandlers

import (
	"net/http"
	"time"

	"github.com/babulal-jewellers/storefront-backend/pkg/apihelpers"
	mw "github.com/babulal-jewellers/storefront-backend/pkg/apihelpers/middlewares"
	"github.com/babulal-jewellers/storefront-backend/pkg/cache"
	adminuser "github.com/babulal-jewellers/storefront-backend/pkg/db/admin-user"
	"github.com/babulal-jewellers/storefront-backend/pkg/db/catalog"
	"github.com/babulal-jewellers/storefront-backend/pkg/db/enquiry"
	"github.com/babulal-jewellers/storefront-backend/pkg/messaging"
	"github.com/gin-gonic/gin"
)

const (
	CACHE_KEY_PREFIX_PRODUCTS = "products:"
	CACHE_KEY_CATEGORIES_ALL  = "categories:all"
	CACHE_KEY_DASHBOARD_STATS = "dashboard:stats"

	CACHE_TTL_PRODUCTS   = 300 * time.Second
	CACHE_TTL_CATEGORIES = 600 * time.Second
	CACHE_TTL_DASHBOARD  = 120 * time.Second
)

// AdminUserStore is the account persistence surface the handlers need.
type AdminUserStore interface {
	CreateUser(user adminuser.AdminUser) (*adminuser.AdminUser, error)
	GetUserByEmail(email string) (*adminuser.AdminUser, error)
	GetUserByID(userID string) (*adminuser.AdminUser, error)
	GetAllUsers() ([]adminuser.AdminUser, error)
	UpdateLastLogin(userID string) error
	UpdateProfile(userID string, name string, number string, address string, bio string, profilePic string) (*adminuser.AdminUser, error)
	AddRefreshToken(userID string, token string) error
	ReplaceRefreshToken(userID string, oldToken string, newToken string) error
	RemoveRefreshToken(userID string, token string) error
	ClearRefreshTokens(userID string) error
}

type TokenTTLs struct {
	AccessToken  time.Duration
	RefreshToken time.Duration
}

type HttpEndpoints struct {
	adminUserDB  AdminUserStore
	catalogDB    *catalog.CatalogDBService
	enquiryDB    *enquiry.EnquiryDBService
	cacheService *cache.CacheService
	mailer       *messaging.NotificationMailer

	accessTokenSignKey  string
	refreshTokenSignKey string
	ttls                TokenTTLs
	useSecureCookies    bool
	adminEmail          string
}

func NewHTTPHandler(
	accessTokenSignKey string,
	refreshTokenSignKey string,
	ttls TokenTTLs,
	adminUserDB AdminUserStore,
	catalogDB *catalog.CatalogDBService,
	enquiryDB *enquiry.EnquiryDBService,
	cacheService *cache.CacheService,
	mailer *messaging.NotificationMailer,
	useSecureCookies bool,
	adminEmail string,
) *HttpEndpoints {
	return &HttpEndpoints{
		adminUserDB:         adminUserDB,
		catalogDB:           catalogDB,
		enquiryDB:           enquiryDB,
		cacheService:        cacheService,
		mailer:              mailer,
		accessTokenSignKey:  accessTokenSignKey,
		refreshTokenSignKey: refreshTokenSignKey,
		ttls:                ttls,
		useSecureCookies:    useSecureCookies,
		adminEmail:          adminEmail,
	}
}

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AddStorefrontAPI registers all routes on the given group.
func (h *HttpEndpoints) AddStorefrontAPI(rg *gin.RouterGroup) {
	authMiddleware := mw.AdminAuthMiddleware(h.accessTokenSignKey, h.adminUserDB)

	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", mw.RequirePayload(), h.login)
		authGroup.POST("/refresh", h.refreshToken)
		authGroup.POST("/logout", h.logout)

		authGroup.GET("/me", authMiddleware, h.getMe)
		authGroup.GET("/check-auth", authMiddleware, h.checkAuth)
		authGroup.PATCH("/update-profile", authMiddleware, mw.RequirePayload(), h.updateProfile)
		authGroup.POST("/create", authMiddleware, mw.RequireRole(adminuser.ROLE_SUPERADMIN), mw.RequirePayload(), h.createUser)
		authGroup.GET("", authMiddleware, mw.RequireRole(adminuser.ROLE_SUPERADMIN), h.getAllUsers)
	}

	productsGroup := rg.Group("/products")
	{
		productsGroup.GET("",
			mw.CacheResponse(h.cacheService, productListCacheKey, CACHE_TTL_PRODUCTS),
			h.getProducts)
		productsGroup.GET("/:slug", h.getProductBySlug)

		adminProducts := productsGroup.Group("/admin", authMiddleware)
		adminProducts.GET("/list", h.getAdminProducts)
		adminProducts.POST("", mw.RequirePayload(), h.createProduct)
		adminProducts.PUT("/:id", mw.RequirePayload(), h.updateProduct)
		adminProducts.DELETE("/:id", h.deleteProduct)
		adminProducts.PATCH("/:id/featured", h.toggleProductFeatured)
	}

	categoriesGroup := rg.Group("/categories")
	{
		categoriesGroup.GET("",
			mw.CacheResponse(h.cacheService, mw.StaticCacheKey(CACHE_KEY_CATEGORIES_ALL), CACHE_TTL_CATEGORIES),
			h.getCategories)

		categoriesGroup.GET("/admin", authMiddleware, h.getAdminCategories)
		categoriesGroup.POST("", authMiddleware, mw.RequirePayload(), h.createCategory)
		categoriesGroup.PUT("/:id", authMiddleware, mw.RequirePayload(), h.updateCategory)
		categoriesGroup.DELETE("/:id", authMiddleware, h.deleteCategory)
	}

	enquiriesGroup := rg.Group("/enquiries")
	{
		enquiriesGroup.POST("", mw.RequirePayload(), h.createEnquiry)

		enquiriesGroup.GET("", authMiddleware, h.getEnquiries)
		enquiriesGroup.PATCH("/:id/status", authMiddleware, mw.RequirePayload(), h.updateEnquiryStatus)
		enquiriesGroup.DELETE("/:id", authMiddleware, h.deleteEnquiry)
	}

	rg.GET("/dashboard",
		authMiddleware,
		mw.CacheResponse(h.cacheService, mw.StaticCacheKey(CACHE_KEY_DASHBOARD_STATS), CACHE_TTL_DASHBOARD),
		h.getDashboard)
}

// productListCacheKey serializes the raw query so each filter/sort/page
// combination gets its own cache entry.
func productListCacheKey(c *gin.Context) string {
	return CACHE_KEY_PREFIX_PRODUCTS + "list:" + c.Request.URL.RawQuery
}

func paginationFromQuery(c *gin.Context, defaultLimit int64, maxLimit int64) apihelpers.PaginatedQuery {
	return apihelpers.ParsePaginatedQueryFromCtx(c, defaultLimit, maxLimit)
}
