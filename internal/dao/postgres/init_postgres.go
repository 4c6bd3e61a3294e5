// Package postgres opens the database connection and runs migrations.
package postgres

import (
	"fmt"

	"kiu_social_server/internal/config"
	"kiu_social_server/internal/dao/postgres/repository"
	"kiu_social_server/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Init connects to Postgres, migrates the schema and returns the
// repository aggregate. TranslateError maps driver duplicate-key
// failures onto gorm.ErrDuplicatedKey so the repositories can surface
// conflicts uniformly.
func Init() (*repository.Repositories, error) {
	conf := config.GetConfig()
	pg := conf.PostgresConfig

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		pg.Host, pg.User, pg.Password, pg.DatabaseName, pg.Port, pg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		zap.L().Error("connect postgres failed", zap.Error(err))
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Friendship{},
		&model.Block{},
		&model.Post{},
		&model.Comment{},
		&model.PostLike{},
		&model.CommentLike{},
		&model.Message{},
	); err != nil {
		zap.L().Error("auto migrate failed", zap.Error(err))
		return nil, err
	}

	zap.L().Info("postgres connected", zap.String("host", pg.Host), zap.String("db", pg.DatabaseName))
	return repository.NewRepositories(db), nil
}
