package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go_voca_srs/internal/middleware"
	"go_voca_srs/internal/model"
	"go_voca_srs/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PackImportConfig は表形式ファイル (.xlsx / .csv) から単語パックを作る設定
//
// 列: A=term B=meaning_ko C=pos D=phonetic E=meaning_en
// F=examples ("en|ko" を ";" 区切り) G=synonyms H=antonyms I=tags (それぞれ "," 区切り) J=audio_url
type PackImportConfig struct {
	FilePath    string
	SheetName   string // 空なら最初のシート
	StartRow    int    // 1始まり。ヘッダー行を飛ばすなら2
	Slug        string
	Title       string
	Level       model.PackLevel
	Description string
	Publish     bool
}

func DefaultPackImportConfig() PackImportConfig {
	return PackImportConfig{
		StartRow: 2,
		Level:    model.LevelBeginner,
	}
}

// PackImportResult は取り込み結果
type PackImportResult struct {
	PackID         uuid.UUID `json:"pack_id"`
	TotalProcessed int       `json:"total_processed"`
	Created        int       `json:"created"`
	Skipped        int       `json:"skipped"`
	Errors         []string  `json:"errors,omitempty"`
}

const (
	colTerm = iota
	colMeaningKO
	colPOS
	colPhonetic
	colMeaningEN
	colExamples
	colSynonyms
	colAntonyms
	colTags
	colAudioURL
)

type PackImportService interface {
	ImportPack(ctx context.Context, cfg PackImportConfig) (*PackImportResult, error)
}

type packImportService struct {
	db          *gorm.DB
	catalogRepo repository.CatalogRepository
}

func NewPackImportService(db *gorm.DB, catalogRepo repository.CatalogRepository) PackImportService {
	return &packImportService{db: db, catalogRepo: catalogRepo}
}

func (s *packImportService) ImportPack(ctx context.Context, cfg PackImportConfig) (*PackImportResult, error) {
	logger := middleware.GetLogger(ctx).With("file", cfg.FilePath, "slug", cfg.Slug)

	if cfg.Slug == "" || cfg.Title == "" {
		return nil, model.NewAppError("INVALID_PACK", "slug と title は必須です。", "slug", model.ErrInvalidInput)
	}
	if !cfg.Level.Valid() {
		return nil, model.NewAppError("INVALID_PACK", "level が不正です: "+string(cfg.Level), "level", model.ErrInvalidInput)
	}
	if cfg.StartRow < 1 {
		cfg.StartRow = 1
	}

	rows, err := readRows(cfg)
	if err != nil {
		logger.Error("Failed to read import file", "error", err)
		return nil, model.NewAppError("IMPORT_READ_FAILED", "ファイルを読み込めませんでした。", "", fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
	}

	packID := uuid.New()
	result := &PackImportResult{PackID: packID, Errors: make([]string, 0)}
	words := make([]*model.Word, 0, len(rows))
	seen := make(map[string]bool)

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow || isBlankRow(row) {
			continue
		}
		result.TotalProcessed++

		w, err := parseWordRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		key := strings.ToLower(w.Term)
		if seen[key] {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: duplicate term %q", rowNum, w.Term))
			continue
		}
		seen[key] = true

		w.WordID = uuid.New()
		w.PackID = packID
		w.OrderIndex = len(words) + 1
		words = append(words, w)
	}

	if len(words) == 0 {
		return nil, model.NewAppError("IMPORT_EMPTY", "取り込める単語がありません。", "", model.ErrInvalidInput)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.catalogRepo.FindPackBySlug(ctx, tx, cfg.Slug); err == nil {
			return model.NewAppError("PACK_CONFLICT", "同じ slug の単語パックが既に存在します。", "slug", model.ErrConflict)
		} else if !errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "単語パックの確認中にエラーが発生しました。", "", err)
		}

		pack := &model.WordPack{
			PackID:      packID,
			Slug:        cfg.Slug,
			Title:       cfg.Title,
			Level:       cfg.Level,
			Description: cfg.Description,
			TotalWords:  len(words),
			IsPublished: cfg.Publish,
		}
		if err := s.catalogRepo.CreatePack(ctx, tx, pack); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("PACK_CONFLICT", "同じ slug の単語パックが既に存在します。", "slug", err)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "単語パックの作成に失敗しました。", "", err)
		}
		if err := s.catalogRepo.CreateWords(ctx, tx, words); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "単語の作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Pack import failed", "error", err)
		return nil, err
	}

	result.Created = len(words)
	logger.Info("Pack imported",
		"pack_id", packID.String(),
		"created", result.Created,
		"skipped", result.Skipped,
	)
	return result, nil
}

func readRows(cfg PackImportConfig) ([][]string, error) {
	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		return readCSVRows(cfg.FilePath)
	}
	return readExcelRows(cfg.FilePath, cfg.SheetName)
}

func readExcelRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // 行ごとに列数が違ってもよい
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseWordRow(row []string) (*model.Word, error) {
	term := cell(row, colTerm)
	meaningKO := cell(row, colMeaningKO)
	if term == "" {
		return nil, errors.New("term is empty")
	}
	if meaningKO == "" {
		return nil, fmt.Errorf("meaning_ko is empty for %q", term)
	}

	w := &model.Word{
		Term:      term,
		MeaningKO: meaningKO,
		POS:       cell(row, colPOS),
		Phonetic:  optional(cell(row, colPhonetic)),
		MeaningEN: optional(cell(row, colMeaningEN)),
		AudioURL:  optional(cell(row, colAudioURL)),
		Synonyms:  datatypes.NewJSONSlice(splitList(cell(row, colSynonyms))),
		Antonyms:  datatypes.NewJSONSlice(splitList(cell(row, colAntonyms))),
		Tags:      datatypes.NewJSONSlice(splitList(cell(row, colTags))),
	}

	examples := make([]model.Example, 0)
	for _, part := range strings.Split(cell(row, colExamples), ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		en, ko, _ := strings.Cut(part, "|")
		examples = append(examples, model.Example{EN: strings.TrimSpace(en), KO: strings.TrimSpace(ko)})
	}
	w.Examples = datatypes.NewJSONSlice(examples)
	return w, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(row[idx], "\""))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
