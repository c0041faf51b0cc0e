// seed prepara una base nueva: aplica el esquema, crea el primer administrador,
// las ubicaciones iniciales y opcionalmente importa el catálogo de productos
// desde una planilla (.xlsx o .csv).
//
// Uso: go run ./cmd/seed -admin admin -password secreto123 -locations "Bodega,Tienda" -products catalogo.xlsx
// La contraseña también puede venir de SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/Stock-api/internal/application/auth"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/internal/infrastructure/export"
	"github.com/jhoicas/Stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Stock-api/pkg/config"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

func main() {
	adminUser := flag.String("admin", "admin", "usuario administrador inicial")
	adminPass := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña del administrador (mín. 8)")
	locations := flag.String("locations", "Bodega principal", "ubicaciones iniciales separadas por coma")
	products := flag.String("products", "", "planilla de productos (.xlsx o .csv)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	if *adminPass != "" {
		authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{Secret: cfg.JWT.Secret})
		created, err := authUC.EnsureAdmin(ctx, *adminUser, *adminPass)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		log.Info().Bool("creado", created).Str("usuario", *adminUser).Msg("administrador")
	} else {
		log.Warn().Msg("sin -password ni SEED_ADMIN_PASSWORD: no se crea administrador")
	}

	stockRepo := postgres.NewStockRepository(pool)
	locationUC := usecase.NewLocationUseCase(postgres.NewLocationRepository(pool), stockRepo, postgres.NewInventorySessionRepository(pool))
	existing, err := locationUC.List(ctx, dto.PageRequest{Limit: dto.MaxLimit})
	if err != nil {
		log.Fatal().Err(err).Msg("listar ubicaciones")
	}
	known := make(map[string]bool, len(existing.Items))
	for _, l := range existing.Items {
		known[strings.ToLower(l.Name)] = true
	}
	for _, name := range strings.Split(*locations, ",") {
		name = domain.NormalizeName(name)
		if name == "" {
			continue
		}
		if known[strings.ToLower(name)] {
			log.Info().Str("ubicación", name).Msg("ya existe")
			continue
		}
		if _, err := locationUC.Create(ctx, dto.CreateLocationRequest{Name: name}); err != nil {
			log.Fatal().Err(err).Str("ubicación", name).Msg("crear ubicación")
		}
		known[strings.ToLower(name)] = true
		log.Info().Str("ubicación", name).Msg("creada")
	}

	if *products == "" {
		return
	}
	f, err := os.Open(*products)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir planilla")
	}
	defer f.Close()
	rows, err := export.ReadProducts(*products, f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer planilla")
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	imp := importer{
		products:   usecase.NewProductUseCase(productRepo, categoryRepo, postgres.NewTagRepository(pool), stockRepo),
		categories: usecase.NewCategoryUseCase(categoryRepo, productRepo),
		catRepo:    categoryRepo,
		catIDs:     map[string]string{},
	}
	created, skipped := 0, 0
	for i, row := range rows {
		ok, err := imp.product(ctx, row)
		if err != nil {
			log.Error().Err(err).Int("fila", i+1).Str("producto", row.Name).Msg("fila rechazada")
			skipped++
			continue
		}
		if !ok {
			skipped++
			continue
		}
		created++
	}
	log.Info().Int("creados", created).Int("omitidos", skipped).Msg("importación de productos")
}

type importer struct {
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	catRepo    repository.CategoryRepository
	catIDs     map[string]string // nombre en minúsculas -> id
}

// product crea el producto de la fila. Devuelve false si ya existía (nombre o código).
func (imp importer) product(ctx context.Context, row export.ProductRow) (bool, error) {
	in := dto.CreateProductRequest{Name: row.Name, Barcode: row.Barcode, Unit: row.Unit, Description: row.Description}
	if row.Category != "" {
		id, err := imp.category(ctx, row.Category)
		if err != nil {
			return false, err
		}
		in.CategoryID = id
	}
	_, err := imp.products.Create(ctx, in)
	if errors.Is(err, domain.ErrDuplicate) {
		return false, nil
	}
	return err == nil, err
}

func (imp importer) category(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := imp.catIDs[key]; ok {
		return id, nil
	}
	existing, err := imp.catRepo.GetByName(ctx, domain.NormalizeName(name))
	if err != nil {
		return "", err
	}
	if existing != nil {
		imp.catIDs[key] = existing.ID
		return existing.ID, nil
	}
	c, err := imp.categories.Create(ctx, dto.CreateCategoryRequest{Name: name})
	if err != nil {
		return "", err
	}
	imp.catIDs[key] = c.ID
	return c.ID, nil
}
