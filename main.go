package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/techagentng/chatx/config"
	"github.com/techagentng/chatx/db"
	"github.com/techagentng/chatx/db/mongostore"
	"github.com/techagentng/chatx/server"
	"github.com/techagentng/chatx/services"
	"github.com/techagentng/chatx/storage"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	if conf.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx := context.Background()
	store, err := openStore(ctx, conf)
	if err != nil {
		log.Fatal("unable to open store", "driver", conf.DBDriver, "err", err)
	}
	files, err := openFileStore(ctx, conf)
	if err != nil {
		log.Fatal("unable to open file storage", "err", err)
	}

	authService := services.NewAuthService(store.Users, conf)
	inboxService := services.NewInboxService(store.Chats, store.Messages, conf)
	mediaService := services.NewMediaService(files, conf)
	chatService := services.NewChatService(store.Chats, store.Users, store.Messages, mediaService, conf)
	searchService := services.NewSearchService(store.Users, store.Chats, inboxService, conf)

	s := &server.Server{
		Config:        conf,
		AuthService:   authService,
		ChatService:   chatService,
		InboxService:  inboxService,
		SearchService: searchService,
		MediaService:  mediaService,
	}
	startErr := s.Start()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(closeCtx); err != nil {
		log.Error("closing store", "err", err)
	}
	if startErr != nil {
		log.Error("server stopped", "err", startErr)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, conf *config.Config) (*db.Store, error) {
	if conf.DBDriver == config.DriverMongo {
		m, err := mongostore.Open(ctx, conf.MongoURL, conf.MongoDB)
		if err != nil {
			return nil, err
		}
		return mongostore.NewStore(m), nil
	}
	gormDB, err := db.Open(conf)
	if err != nil {
		return nil, err
	}
	return db.NewStore(gormDB), nil
}

func openFileStore(ctx context.Context, conf *config.Config) (storage.FileStore, error) {
	if conf.UsesS3() {
		log.Info("storing uploads in s3", "bucket", conf.AWSBucket, "region", conf.AWSRegion)
		return storage.NewS3Store(ctx, conf)
	}
	log.Info("storing uploads on disk", "dir", conf.UploadDir)
	return storage.NewDiskStore(conf.UploadDir, server.UploadsPath)
}
