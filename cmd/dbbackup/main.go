package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/database"
)

type tabler interface {
	TableName() string
}

// record mirrors one row of the dump: table name, primary key and the
// remaining columns.
type record struct {
	Model  string         `json:"model"`
	PK     any            `json:"pk,omitempty"`
	Fields map[string]any `json:"fields"`
}

func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", ".", "directory for the dump file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	path := filepath.Join(*dir, backupName(time.Now()))
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}

	n, err := dump(context.Background(), db, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		log.Fatalf("backup failed: %v", err)
	}

	log.Printf("backup completed: file=%s records=%d", path, n)
}

func backupName(now time.Time) string {
	return "db-" + now.Format("2006-01-02-15-04-05") + ".json"
}

// dump writes every table in migration order as one JSON array and returns
// the number of records written.
func dump(ctx context.Context, db *gorm.DB, w io.Writer) (int, error) {
	var out []record
	for _, m := range database.Models() {
		t, ok := m.(tabler)
		if !ok {
			return 0, fmt.Errorf("model %T has no table name", m)
		}

		var rows []map[string]any
		q := db.WithContext(ctx).Table(t.TableName())
		if db.Migrator().HasColumn(m, "id") {
			q = q.Order("id ASC")
		}
		if err := q.Find(&rows).Error; err != nil {
			return 0, fmt.Errorf("read %s: %w", t.TableName(), err)
		}

		for _, row := range rows {
			rec := record{Model: t.TableName(), Fields: row}
			if id, ok := row["id"]; ok {
				rec.PK = id
				delete(row, "id")
			}
			out = append(out, rec)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if out == nil {
		out = []record{}
	}
	if err := enc.Encode(out); err != nil {
		return 0, err
	}
	return len(out), nil
}
