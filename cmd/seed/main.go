package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", envOr("INGREDIENTS_FILE", "/var/data/ingredients.csv"), "CSV with name,measurement_unit rows")
	withTags := flag.Bool("tags", true, "create the default breakfast/lunch/dinner tags")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open %s: %v", *file, err)
	}
	defer f.Close()

	items, err := readIngredients(f)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	created, err := repository.NewIngredientRepository(db).EnsureMany(ctx, items)
	if err != nil {
		log.Fatalf("insert ingredients: %v", err)
	}
	fmt.Printf("Created total: %d\n", created)

	if *withTags {
		n, err := repository.NewTagRepository(db).EnsureMany(ctx, defaultTags())
		if err != nil {
			log.Fatalf("insert tags: %v", err)
		}
		log.Printf("tags created: %d", n)
	}
}

// readIngredients parses name,measurement_unit rows. Blank rows are skipped
// and repeated pairs within the file collapse to one.
func readIngredients(r io.Reader) ([]domain.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	seen := make(map[[2]string]bool)
	var out []domain.Ingredient
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: want name,measurement_unit", line)
		}

		name := strings.TrimSpace(row[0])
		unit := strings.TrimSpace(row[1])
		if name == "" || unit == "" {
			return nil, fmt.Errorf("line %d: empty name or unit", line)
		}
		key := [2]string{name, unit}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, domain.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return out, nil
}

func defaultTags() []domain.Tag {
	color := func(s string) *string { return &s }
	return []domain.Tag{
		{Name: "Завтрак", Slug: "breakfast", Color: color("#E26C2D")},
		{Name: "Обед", Slug: "lunch", Color: color("#49B64E")},
		{Name: "Ужин", Slug: "dinner", Color: color("#8775D2")},
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
