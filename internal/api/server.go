package api

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/bikerent/bikerent-api/docs"
	v1 "github.com/bikerent/bikerent-api/internal/api/handler/v1"
	"github.com/bikerent/bikerent-api/internal/api/middleware"
	"github.com/bikerent/bikerent-api/internal/cache"
	"github.com/bikerent/bikerent-api/internal/config"
	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/metrics"
	"github.com/bikerent/bikerent-api/internal/pkg/imagestore"
	"github.com/bikerent/bikerent-api/internal/repository"
	"github.com/bikerent/bikerent-api/internal/repository/dao"
	"github.com/bikerent/bikerent-api/internal/service"
)

const (
	basePath    = "/api/v1"
	sessionName = "bikerent_session"
)

// Deps are the process wide resources the server is built on.
type Deps struct {
	DB       *gorm.DB
	Cache    cache.Cache
	Mailer   service.Mailer
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer
}

type Server struct {
	Config       *config.AppConfig
	Router       *gin.Engine
	Metrics      *metrics.Metrics
	Reservations *service.ReservationService
}

type handlers struct {
	company       *v1.CompanyHandler
	product       *v1.ProductHandler
	cart          *v1.CartHandler
	auth          *v1.AuthHandler
	account       *v1.AccountHandler
	bike          *v1.AdminBikeHandler
	manufacturer  *v1.AdminManufacturerHandler
	usage         *v1.AdminUsageHandler
	gallery       *v1.AdminGalleryHandler
	user          *v1.AdminUserHandler
	reservation   *v1.AdminReservationHandler
	authenticator *middleware.Authenticator
}

func NewServer(conf *config.AppConfig, deps Deps) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	if deps.Cache == nil {
		deps.Cache = cache.NopCache{}
	}
	if deps.Mailer == nil {
		deps.Mailer = service.LogMailer{}
	}
	if deps.Registry == nil {
		reg := prometheus.NewRegistry()
		deps.Registry = reg
		deps.Gatherer = reg
	}

	s := &Server{
		Config:  conf,
		Router:  engine,
		Metrics: metrics.New(deps.Registry),
	}

	h, err := s.initHandlers(deps)
	if err != nil {
		return nil, err
	}

	s.MountMiddlewares(h.authenticator)
	s.MountHandlers(h, deps.Gatherer)

	return s, nil
}

func (s *Server) initHandlers(deps Deps) (handlers, error) {
	delayRule, err := domain.DelayRuleByName(s.Config.Reservation.DelayRule)
	if err != nil {
		return handlers{}, fmt.Errorf("domain.DelayRuleByName -> %w", err)
	}

	company := domain.Company{
		Name:      s.Config.Company.Name,
		Address:   s.Config.Company.Address,
		Email:     s.Config.Company.Email,
		Telephone: s.Config.Company.Telephone,
		Latitude:  s.Config.Company.Latitude,
		Longitude: s.Config.Company.Longitude,
	}

	userDAO := dao.NewUserDAO(deps.DB)
	bikeDAO := dao.NewBikeDAO(deps.DB)
	userRepo := repository.NewUserRepository(userDAO)
	bikeRepo := repository.NewBikeRepository(bikeDAO)
	manufacturerRepo := repository.NewManufacturerRepository(dao.NewManufacturerDAO(deps.DB))
	usageRepo := repository.NewUsageRepository(dao.NewUsageDAO(deps.DB))
	galleryRepo := repository.NewGalleryRepository(dao.NewGalleryDAO(deps.DB))
	reservationRepo := repository.NewReservationRepository(dao.NewReservationDAO(deps.DB), bikeDAO)

	notifier := service.NewNotifier(deps.Mailer, company, s.Config.API.BaseURL)

	catalogSvc := service.NewCatalogService(bikeRepo, manufacturerRepo, usageRepo, galleryRepo, deps.Cache, s.Config.Redis.TTL)
	authSvc := service.NewAuthService(userRepo, notifier, []byte(s.Config.API.JWTSigningKey))
	userSvc := service.NewUserService(userRepo)
	gallerySvc := service.NewGalleryService(galleryRepo, imagestore.New(s.Config.API.UploadDir), catalogSvc)
	s.Reservations = service.NewReservationService(reservationRepo, bikeRepo, userRepo, notifier, s.Metrics, delayRule)

	return handlers{
		company:       v1.NewCompanyHandler(company),
		product:       v1.NewProductHandler(catalogSvc),
		cart:          v1.NewCartHandler(catalogSvc, s.Reservations),
		auth:          v1.NewAuthHandler(s.Config.API, authSvc),
		account:       v1.NewAccountHandler(userSvc, s.Reservations),
		bike:          v1.NewAdminBikeHandler(catalogSvc),
		manufacturer:  v1.NewAdminManufacturerHandler(service.NewManufacturerService(manufacturerRepo)),
		usage:         v1.NewAdminUsageHandler(service.NewUsageService(usageRepo)),
		gallery:       v1.NewAdminGalleryHandler(gallerySvc),
		user:          v1.NewAdminUserHandler(userSvc),
		reservation:   v1.NewAdminReservationHandler(s.Reservations),
		authenticator: middleware.NewAuthenticator(s.Config.API.JWTSigningKey, authSvc),
	}, nil
}

func (s *Server) MountMiddlewares(authenticator *middleware.Authenticator) {
	store := cookie.NewStore([]byte(s.Config.API.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   s.Config.API.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.Metrics(s.Metrics))
	s.Router.Use(sessions.Sessions(sessionName, store))
	s.Router.Use(authenticator.Identify())
}

func (s *Server) MountHandlers(h handlers, gatherer prometheus.Gatherer) {
	public := s.Router.Group(basePath)
	{
		public.GET("/company", h.company.HandleGetCompany)

		public.GET("/products", h.product.HandleListProducts)
		public.POST("/products/filter", h.product.HandleFilterProducts)
		public.GET("/products/filter-options", h.product.HandleFilterOptions)
		public.GET("/products/:bikeID", h.product.HandleGetProduct)

		public.GET("/cart", h.cart.HandleGetCart)
		public.POST("/cart/items", h.cart.HandleAddItem)
		public.DELETE("/cart/items/:bikeID", h.cart.HandleRemoveItem)
		public.PUT("/cart/date-range", h.cart.HandleSetDateRange)
		public.POST("/cart/checkout", h.cart.HandleCheckout)

		public.POST("/sign/up", h.auth.HandleSignUp)
		public.POST("/sign/in", h.auth.HandleLogin)
		public.POST("/sign/out", h.auth.HandleLogout)
		public.POST("/sign/reset", h.auth.HandleResetRequest)
		public.POST("/sign/reset/confirm", h.auth.HandleResetConfirm)
	}

	account := s.Router.Group(basePath+"/account", middleware.RequireAuth())
	{
		account.GET("", h.account.HandleGetAccount)
		account.PUT("", h.account.HandleUpdateAccount)
		account.GET("/reservations", h.account.HandleListAccountReservations)
	}

	admin := s.Router.Group(basePath+"/admin", middleware.RequireStaff(basePath+"/sign/in", basePath+"/products"))
	{
		admin.GET("/bikes", h.bike.HandleListBikes)
		admin.GET("/bikes/:bikeID", h.bike.HandleGetBike)
		admin.POST("/bikes", h.bike.HandleCreateBike)
		admin.PUT("/bikes/:bikeID", h.bike.HandleUpdateBike)
		admin.DELETE("/bikes/:bikeID", h.bike.HandleDeleteBike)

		admin.GET("/manufacturers", h.manufacturer.HandleListManufacturers)
		admin.GET("/manufacturers/:manufacturerID", h.manufacturer.HandleGetManufacturer)
		admin.POST("/manufacturers", h.manufacturer.HandleCreateManufacturer)
		admin.PUT("/manufacturers/:manufacturerID", h.manufacturer.HandleRenameManufacturer)
		admin.DELETE("/manufacturers/:manufacturerID", h.manufacturer.HandleDeleteManufacturer)

		admin.GET("/usages", h.usage.HandleListUsages)
		admin.GET("/usages/:usageID", h.usage.HandleGetUsage)
		admin.POST("/usages", h.usage.HandleCreateUsage)
		admin.PUT("/usages/:usageID", h.usage.HandleRenameUsage)
		admin.DELETE("/usages/:usageID", h.usage.HandleDeleteUsage)

		admin.GET("/galleries", h.gallery.HandleListGalleries)
		admin.GET("/galleries/:galleryID", h.gallery.HandleGetGallery)
		admin.POST("/galleries", h.gallery.HandleCreateGallery)
		admin.PUT("/galleries/:galleryID", h.gallery.HandleUpdateGallery)
		admin.DELETE("/galleries/:galleryID", h.gallery.HandleDeleteGallery)

		admin.GET("/users", h.user.HandleListUsers)
		admin.GET("/users/:userID", h.user.HandleGetUser)
		admin.POST("/users", h.user.HandleCreateUser)
		admin.PUT("/users/:userID", h.user.HandleUpdateUser)
		admin.DELETE("/users/:userID", h.user.HandleDeleteUser)
		admin.PATCH("/users/:userID/role", h.user.HandleChangeUserRole)
		admin.PATCH("/users/:userID/state", h.user.HandleChangeUserState)

		admin.GET("/reservations", h.reservation.HandleListReservations)
		admin.GET("/reservations/:reservationID", h.reservation.HandleGetReservation)
		admin.POST("/reservations", h.reservation.HandleCreateReservation)
		admin.PUT("/reservations/:reservationID", h.reservation.HandleUpdateReservation)
		admin.PATCH("/reservations/:reservationID/state", h.reservation.HandleChangeReservationState)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	s.Router.Static("/img", s.Config.API.UploadDir)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Bike rental API"
	docs.SwaggerInfo.Description = "Storefront and back office of a bike rental shop."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
