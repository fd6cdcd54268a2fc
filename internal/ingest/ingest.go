// Package ingest owns the write path of the knowledge base: parsing the
// source workbook, replacing the SQLite table, swapping the in-memory
// catalog, and backing up / reverting the workbook file. Everything else
// only ever reads.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rsanthanam/techdesk/internal/catalog"
	"github.com/rsanthanam/techdesk/internal/common"
	"github.com/rsanthanam/techdesk/internal/kb"
	"github.com/rsanthanam/techdesk/internal/sqlite"
)

// Workbook column headers, matched case-insensitively after trimming.
const (
	codeColumn        = "access code"
	nameColumn        = "setting item name"
	subCodeColumn     = "sub code"
	descriptionColumn = "description of values"
)

const backupTimeLayout = "20060102_150405"

type Service struct {
	workbookPath string
	backupDir    string
	store        *sqlite.Store
	catalog      *catalog.Catalog
}

func New(workbookPath, backupDir string, store *sqlite.Store, cat *catalog.Catalog) *Service {
	return &Service{
		workbookPath: workbookPath,
		backupDir:    backupDir,
		store:        store,
		catalog:      cat,
	}
}

// ParseWorkbook reads the first sheet of an xlsx workbook into normalized
// records. Codes are reduced to digit strings, names trimmed, and the
// sub-code and description sentinels applied, so every consumer downstream
// compares canonical values.
func ParseWorkbook(r io.Reader) ([]kb.Record, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns := map[string]int{}
	for idx, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = idx
	}
	for _, required := range []string{codeColumn, nameColumn} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	records := make([]kb.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := kb.Record{
			Code:        kb.CleanToDigits(cell(row, columns, codeColumn)),
			Name:        strings.TrimSpace(cell(row, columns, nameColumn)),
			SubCode:     strings.TrimSpace(cell(row, columns, subCodeColumn)),
			Description: strings.TrimSpace(cell(row, columns, descriptionColumn)),
		}
		if rec.Code == "" && rec.Name == "" {
			continue
		}
		if rec.SubCode == "" {
			rec.SubCode = kb.SubCodeNone
		}
		if rec.Description == "" {
			rec.Description = kb.NoDescription
		}
		records = append(records, rec)
	}
	return records, nil
}

func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Reload re-reads the workbook from disk, replaces the SQLite table and
// swaps the catalog snapshot. Returns the number of records loaded.
func (s *Service) Reload(ctx context.Context) (int, error) {
	file, err := os.Open(s.workbookPath)
	if err != nil {
		return 0, fmt.Errorf("open workbook file: %w", err)
	}
	defer file.Close()

	records, err := ParseWorkbook(file)
	if err != nil {
		return 0, err
	}
	if err := s.store.ReplaceRecords(ctx, records); err != nil {
		return 0, err
	}
	s.catalog.Replace(records)
	common.Logger().Info("ingest: knowledge base reloaded", "records", len(records), "workbook", s.workbookPath)
	return len(records), nil
}

// Upload backs up the active workbook, replaces it with the uploaded
// content, and re-ingests. The backup name is returned when one was taken.
func (s *Service) Upload(ctx context.Context, content io.Reader) (string, int, error) {
	backupName := ""
	if _, err := os.Stat(s.workbookPath); err == nil {
		name, err := s.backupCurrent()
		if err != nil {
			return "", 0, err
		}
		backupName = name
	}
	if err := writeFile(s.workbookPath, content); err != nil {
		return backupName, 0, fmt.Errorf("save workbook: %w", err)
	}
	count, err := s.Reload(ctx)
	if err != nil {
		return backupName, 0, err
	}
	return backupName, count, nil
}

// Backups lists available backup file names, newest first.
func (s *Service) Backups() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Revert restores a named backup as the active workbook and re-ingests.
// The name is reduced to its base form so it cannot escape the backup dir.
func (s *Service) Revert(ctx context.Context, name string) (int, error) {
	secure := filepath.Base(strings.TrimSpace(name))
	if secure == "" || secure == "." || secure == string(filepath.Separator) {
		return 0, fmt.Errorf("invalid backup name %q", name)
	}
	backupPath := filepath.Join(s.backupDir, secure)
	file, err := os.Open(backupPath)
	if err != nil {
		return 0, fmt.Errorf("open backup %q: %w", secure, err)
	}
	defer file.Close()
	if err := writeFile(s.workbookPath, file); err != nil {
		return 0, fmt.Errorf("restore backup: %w", err)
	}
	common.Logger().Info("ingest: workbook reverted", "backup", secure)
	return s.Reload(ctx)
}

func (s *Service) backupCurrent() (string, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := "backup_" + time.Now().Format(backupTimeLayout) + ".xlsx"
	src, err := os.Open(s.workbookPath)
	if err != nil {
		return "", fmt.Errorf("open active workbook: %w", err)
	}
	defer src.Close()
	if err := writeFile(filepath.Join(s.backupDir, name), src); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return name, nil
}

func writeFile(path string, content io.Reader) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
