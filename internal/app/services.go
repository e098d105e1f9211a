package app

import (
	"buyerleads/internal/auth"
	"buyerleads/internal/repo"
	"buyerleads/internal/services"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB             *gorm.DB
	AuthService    *auth.Service
	UserRepo       *repo.UserRepository
	BuyerRepo      *repo.BuyerRepository
	HistoryRepo    *repo.HistoryRepository
	BuyerService   *services.BuyerService
	ImportService  *services.ImportService
	StorageService *services.StorageService
}

// NewServices creates a new services container
func NewServices(db *gorm.DB) *Services {
	// Initialize repositories
	userRepo := repo.NewUserRepository(db)
	buyerRepo := repo.NewBuyerRepository(db)
	historyRepo := repo.NewHistoryRepository(db)

	// Initialize services
	authService := auth.NewService(userRepo)
	buyerService := services.NewBuyerService(buyerRepo, historyRepo)

	// Storage is optional: imports still run without S3, they just skip the
	// file archive step.
	storageService, err := services.NewStorageService()
	if err != nil {
		log.Warn().Err(err).Msg("S3 storage not configured, import files will not be archived")
		storageService = nil
	}

	importService := services.NewImportService(buyerRepo, storageService)

	return &Services{
		DB:             db,
		AuthService:    authService,
		UserRepo:       userRepo,
		BuyerRepo:      buyerRepo,
		HistoryRepo:    historyRepo,
		BuyerService:   buyerService,
		ImportService:  importService,
		StorageService: storageService,
	}
}
