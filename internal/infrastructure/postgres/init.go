package postgres

import (
	"log"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.EscrowConfig) *gorm.DB {
	dsn := cfg.EscrowDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.EscrowModel{},
		&models.DisputeEscalationModel{},
		&models.ArbiterVoteModel{},
		&models.VoteTallyModel{},
		&models.ArbiterModel{},
		&models.UserStatsModel{},
		&models.ProtocolStatsModel{},
		&models.EscrowEventModel{},
	)

	return db
}
