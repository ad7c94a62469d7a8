package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/meshur/storefront-backend/config"
	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/internal/app/service"
	"github.com/meshur/storefront-backend/internal/catalog"
	"github.com/meshur/storefront-backend/internal/storage"
)

func main() {
	dir := flag.String("dir", "./data", "directory holding categories.json and brands.json; products.json is written here")
	upload := flag.Bool("upload", false, "also upload the three fixture files to the configured S3 bucket")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("Usage: go run cmd/catalog-import/main.go [-dir ./data] [-upload] [-yes] <xlsx_file_path>")
	}
	filePath := flag.Arg(0)

	var categories []model.Category
	if err := readJSON(filepath.Join(*dir, catalog.CategoriesFile), &categories); err != nil {
		log.Fatal("Failed to read categories:", err)
	}
	var brands []model.Brand
	if err := readJSON(filepath.Join(*dir, catalog.BrandsFile), &brands); err != nil {
		log.Fatal("Failed to read brands:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	result, err := service.ReadCatalogWorkbook(f, brands, categories)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", result.Rows)
	fmt.Printf("  Products: %d\n", len(result.Products))
	fmt.Printf("  Skipped rows: %d\n", result.SkippedRows)
	fmt.Printf("  Duplicate variants: %d\n", result.DuplicateVariants)
	if len(result.UnknownCategories) > 0 {
		fmt.Printf("  Unknown categories: %v\n", result.UnknownCategories)
	}
	if len(result.UnknownBrands) > 0 {
		fmt.Printf("  Unknown brands (imported without brand): %v\n", result.UnknownBrands)
	}

	if !*yes {
		fmt.Printf("Overwrite %s? (yes/no): ", filepath.Join(*dir, catalog.ProductsFile))
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	data, err := json.MarshalIndent(result.Products, "", "  ")
	if err != nil {
		log.Fatal("Failed to encode products:", err)
	}
	if err := os.WriteFile(filepath.Join(*dir, catalog.ProductsFile), append(data, '\n'), 0o644); err != nil {
		log.Fatal("Failed to write products:", err)
	}
	fmt.Printf("Wrote %d products to %s\n", len(result.Products), filepath.Join(*dir, catalog.ProductsFile))

	if !*upload {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	objects := storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.Catalog.S3Prefix)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	for _, name := range []string{catalog.ProductsFile, catalog.CategoriesFile, catalog.BrandsFile} {
		body, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			log.Fatal("Failed to read fixture:", err)
		}
		if err := objects.PutObject(ctx, name, "application/json", body); err != nil {
			log.Fatal("Failed to upload fixture:", err)
		}
		fmt.Printf("Uploaded s3://%s/%s\n", cfg.S3.Bucket, objects.Key(name))
	}

	fmt.Println("Import completed successfully!")
}

func readJSON(path string, into interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, into)
}
