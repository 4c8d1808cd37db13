// cmd/packimport/main.go
//
// 表形式ファイル (.xlsx / .csv) から単語パックをカタログに取り込みます。
//
//	go run ./cmd/packimport -f toeic.xlsx --slug toeic-basic --title "TOEIC Basic" --level beginner --publish
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go_voca_srs/internal/config"
	"go_voca_srs/internal/model"
	"go_voca_srs/internal/repository"
	"go_voca_srs/internal/service"

	"github.com/lmittmann/tint"
	flag "github.com/spf13/pflag"
)

func main() {
	defaults := service.DefaultPackImportConfig()

	configDir := flag.StringP("config", "c", "configs", "config.yaml を探すディレクトリ")
	filePath := flag.StringP("file", "f", "", "取り込むファイル (.xlsx / .csv)")
	sheet := flag.String("sheet", "", "シート名 (省略時は最初のシート)")
	startRow := flag.Int("start-row", defaults.StartRow, "データの開始行 (1始まり)")
	slug := flag.String("slug", "", "パックの slug")
	title := flag.String("title", "", "パックのタイトル")
	level := flag.String("level", string(defaults.Level), "beginner | intermediate | advanced | exam | topic")
	description := flag.String("description", "", "パックの説明")
	publish := flag.Bool("publish", false, "取り込み後すぐに公開する")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo, TimeFormat: time.Kitchen}))
	slog.SetDefault(logger)

	if *filePath == "" || *slug == "" || *title == "" {
		fmt.Fprintln(os.Stderr, "usage: packimport -f <file> --slug <slug> --title <title> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := config.LoadConfig(*configDir); err != nil {
		logger.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repository.NewDB(config.Cfg.Database.Driver, config.Cfg.Database.URL, logger)
	if err != nil {
		logger.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := repository.Migrate(db); err != nil {
		logger.Error("Error migrating database", slog.Any("error", err))
		os.Exit(1)
	}

	svc := service.NewPackImportService(db, repository.NewGormCatalogRepository())
	result, err := svc.ImportPack(context.Background(), service.PackImportConfig{
		FilePath:    *filePath,
		SheetName:   *sheet,
		StartRow:    *startRow,
		Slug:        *slug,
		Title:       *title,
		Level:       model.PackLevel(*level),
		Description: *description,
		Publish:     *publish,
	})
	if err != nil {
		logger.Error("Import failed", slog.Any("error", err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(result)
}
