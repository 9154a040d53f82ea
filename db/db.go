package db

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/techagentng/chatx/config"
	"github.com/techagentng/chatx/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

// Open connects to the relational store named by c.DBDriver and runs migrations.
func Open(c *config.Config) (*GormDB, error) {
	gormConfig := &gorm.Config{
		// Chats reference users the way the document store did: no enforced
		// foreign keys, dangling members are handled by the readers.
		DisableForeignKeyConstraintWhenMigrating: true,
	}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	var dialector gorm.Dialector
	switch c.DBDriver {
	case config.DriverSQLite:
		log.Info("opening sqlite", "path", c.SQLitePath)
		dialector = sqlite.Open(c.SQLitePath)
	default:
		log.Info("connecting to postgres", "host", c.PostgresHost, "port", c.PostgresPort, "db", c.PostgresDB)
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)
		dialector = postgres.New(postgres.Config{DSN: dsn})
	}

	gormDB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	g := &GormDB{DB: gormDB}
	if c.DBDriver == config.DriverSQLite {
		g.limitToSingleConn()
	}
	if err := migrate(g.DB); err != nil {
		return nil, err
	}
	return g, nil
}

// NewSQLite opens a sqlite database at path, ":memory:" included, and migrates it.
func NewSQLite(path string) (*GormDB, error) {
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	g := &GormDB{DB: gormDB}
	g.limitToSingleConn()
	if err := migrate(g.DB); err != nil {
		return nil, err
	}
	return g, nil
}

// sqlite keeps one database per connection for :memory: and serialises writers anyway.
func (g *GormDB) limitToSingleConn() {
	if sqlDB, err := g.DB.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
}

func (g *GormDB) Close(ctx context.Context) error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Chat{},
		&models.Membership{},
		&models.Message{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}
	return nil
}

// Store bundles the gateway a process runs against.
type Store struct {
	Chats    ChatRepository
	Messages MessageRepository
	Users    UserRepository
	Close    func(ctx context.Context) error
}

// NewStore wires the gorm repositories over g.
func NewStore(g *GormDB) *Store {
	return &Store{
		Chats:    NewChatRepo(g),
		Messages: NewMessageRepo(g),
		Users:    NewUserRepo(g),
		Close:    g.Close,
	}
}
