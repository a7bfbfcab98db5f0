package database

import (
	"fmt"
	"log"

	"quizpair_backend/internal/config"
	"quizpair_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Game{},
		&model.PlayerProgress{},
		&model.GameAnswer{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Starter question set, so a fresh install can be matched against right away.
	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count == 0 {
		seed := []struct {
			body    string
			answers []string
		}{
			{"What is the capital of France?", []string{"Paris"}},
			{"How many continents are there?", []string{"7", "seven"}},
			{"What planet is known as the Red Planet?", []string{"Mars"}},
			{"What is the chemical symbol for water?", []string{"H2O"}},
			{"Who wrote '1984'?", []string{"George Orwell", "Orwell"}},
			{"What is the largest ocean?", []string{"Pacific", "Pacific Ocean"}},
			{"In what year did World War II end?", []string{"1945"}},
			{"What is the square root of 144?", []string{"12", "twelve"}},
		}
		for _, s := range seed {
			q := &model.Question{Body: s.body, Published: true}
			if err := q.SetAnswerList(s.answers); err != nil {
				continue
			}
			db.Create(q)
		}
	}

	return db, nil
}
