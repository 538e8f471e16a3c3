package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"epicrm/internal/auth"
	"epicrm/internal/config"
	"epicrm/internal/guard"
	"epicrm/internal/httpserver"
	"epicrm/internal/logger"
	"epicrm/internal/models"
	"epicrm/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Secrets are checked before anything touches data: a process with
		// missing key material must not start, let alone fall back to
		// plaintext.
		logger.New("info").Fatalw("configuration error", "error", err)
	}
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	if cfg.DatabaseURL == "" {
		lg.Fatalw("DATABASE_URL is empty")
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(&models.Department{}, &models.Collaborator{}, &models.Client{}, &models.Contract{}, &models.Event{}); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	seed(db, lg)

	codec, err := service.NewFieldCodec(cfg.EncryptionKey, cfg.BlindIndexKey)
	if err != nil {
		lg.Fatalw("field codec init failed", "error", err)
	}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	g := guard.New(db, tokens)

	router := httpserver.NewRouter(httpserver.Services{
		Collaborators: service.NewCollaboratorService(db, g, tokens, lg),
		Clients:       service.NewClientService(db, g, codec, lg),
		Contracts:     service.NewContractService(db, g, lg),
		Events:        service.NewEventService(db, g, lg),
	}, lg)

	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

// seed creates the three departments and a bootstrap management account so
// a fresh database has someone able to create everyone else. Idempotent.
func seed(db *gorm.DB, lg *zap.SugaredLogger) {
	for _, code := range models.AllDepartments() {
		db.Where(models.Department{Code: code}).FirstOrCreate(&models.Department{Code: code})
	}

	var count int64
	db.Model(&models.Collaborator{}).Where("email = ?", "admin@epicrm.local").Count(&count)
	if count > 0 {
		return
	}
	var mgmt models.Department
	if err := db.First(&mgmt, "code = ?", models.DeptManagement).Error; err != nil {
		lg.Fatalw("management department missing", "error", err)
	}
	admin := models.Collaborator{
		FirstName:    "Admin",
		LastName:     "Bootstrap",
		Email:        "admin@epicrm.local",
		DepartmentID: mgmt.ID,
	}
	if err := admin.SetPassword("changeme"); err != nil {
		lg.Fatalw("seed admin password", "error", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		lg.Fatalw("seed admin failed", "error", err)
	}
	lg.Infow("seeded bootstrap management account", "email", admin.Email)
}
