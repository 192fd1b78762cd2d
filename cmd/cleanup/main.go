package main

import (
	"context"
	"log"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/infra/db"
	infraRepo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/infra/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// 期限切れダウンロードリンクと古いダウンロードログを削除する。
// cronで定期実行する想定。
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}

	linkRepo := infraRepo.NewDownloadLinkGormRepository(gormDB)
	logRepo := infraRepo.NewDownloadLogGormRepository(gormDB)

	uc := usecase.NewCleanupUsecase(linkRepo, logRepo, &realClock{})

	result, err := uc.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("cleanup done: expired_links=%d old_logs=%d", result.ExpiredLinksDeleted, result.OldLogsDeleted)
}
