// Command seed loads sample listings into an empty catalog and can reset the
// admin account.
//
//	go run ./cmd/seed               sample owner + properties when none exist
//	go run ./cmd/seed -reset-admin  also re-create or reset the admin password
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
	"github.com/alquilercordoba/rental-system/internal/core/service"
	"github.com/alquilercordoba/rental-system/internal/infrastructure/db/sqlstore"
	"github.com/alquilercordoba/rental-system/internal/pkg/config"
	"github.com/alquilercordoba/rental-system/pkg/logger"
)

const (
	sampleOwnerEmail    = "propietario@example.com"
	sampleOwnerPassword = "password123"
)

func main() {
	resetAdmin := flag.Bool("reset-admin", false, "create the admin account or reset its password and role")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "rental-seed", Env: cfg.Env})

	store, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:       sqlstore.Driver(cfg.Database.Driver),
		DatabaseURL:  cfg.Database.URL,
		SQLitePath:   cfg.Database.SQLitePath,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer store.Close()

	users := sqlstore.NewUserRepository(store)
	auth := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, log)

	if *resetAdmin {
		if err := auth.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, true); err != nil {
			log.Fatal().Err(err).Msg("reset admin")
		}
		log.Info().Str("email", cfg.Admin.Email).Msg("admin account ready")
	}

	created, err := seedCatalog(ctx, auth, sqlstore.NewPropertyRepository(store), log)
	if err != nil {
		log.Fatal().Err(err).Msg("seed catalog")
	}
	log.Info().Int("properties", created).Msg("seed finished")
}

// seedCatalog makes sure the sample owner exists and inserts the sample
// properties when the catalog is empty. It returns how many were inserted.
func seedCatalog(ctx context.Context, auth ports.AuthService, properties ports.PropertyRepository, log zerolog.Logger) (int, error) {
	_, _, err := auth.Register(ctx, ports.RegisterInput{
		Email:     sampleOwnerEmail,
		Password:  sampleOwnerPassword,
		FirstName: "Juan",
		LastName:  "Pérez",
	})
	switch {
	case err == nil:
		log.Info().Str("email", sampleOwnerEmail).Msg("sample owner created")
	case errors.Is(err, domain.ErrUserExists):
		log.Info().Str("email", sampleOwnerEmail).Msg("sample owner already exists")
	default:
		return 0, fmt.Errorf("create sample owner: %w", err)
	}

	_, total, err := properties.List(ctx, ports.ListPropertiesFilter{Page: 1, PageSize: 1})
	if err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	if total > 0 {
		log.Warn().Int64("existing", total).Msg("catalog is not empty, skipping sample properties")
		return 0, nil
	}

	for _, p := range sampleProperties() {
		if _, err := properties.Create(ctx, p); err != nil {
			return 0, fmt.Errorf("create %q: %w", p.Title, err)
		}
	}
	return len(sampleProperties()), nil
}

func sampleProperties() []*domain.Property {
	const img = "https://images.unsplash.com/"
	return []*domain.Property{
		{
			Title:         "Casa Moderna en Nueva Córdoba",
			Description:   "Casa moderna en el corazón de Nueva Córdoba, a pocas cuadras de la universidad. Completamente equipada.",
			Location:      "Nueva Córdoba, Córdoba",
			PricePerNight: 15000,
			Capacity:      4,
			CoverImage:    img + "photo-1600585154340-be6161a56a0c?w=800",
			Images: []string{
				img + "photo-1600585154340-be6161a56a0c?w=800",
				img + "photo-1600607687939-ce8a6c25118c?w=800",
				img + "photo-1600566753190-17f0baa2a6c3?w=800",
			},
			Amenities:  []string{"Wifi", "Aire acondicionado", "Cocina", "Estacionamiento"},
			OwnerEmail: sampleOwnerEmail,
		},
		{
			Title:         "Loft Minimalista en Güemes",
			Description:   "Loft luminoso en el barrio bohemio de Güemes. Ideal para parejas.",
			Location:      "Güemes, Córdoba",
			PricePerNight: 12000,
			Capacity:      2,
			CoverImage:    img + "photo-1522708323590-d24dbb6b0267?w=800",
			Images: []string{
				img + "photo-1522708323590-d24dbb6b0267?w=800",
				img + "photo-1502672260266-1c1ef2d93688?w=800",
			},
			Amenities:  []string{"Wifi", "Aire acondicionado", "Cocina"},
			OwnerEmail: sampleOwnerEmail,
		},
		{
			Title:         "Departamento con Vista al Río",
			Description:   "Departamento amplio con vista al río Suquía, cerca del centro.",
			Location:      "Centro, Córdoba",
			PricePerNight: 18000,
			Capacity:      6,
			CoverImage:    img + "photo-1600607687920-4e2a09cf159d?w=800",
			Images: []string{
				img + "photo-1600607687920-4e2a09cf159d?w=800",
				img + "photo-1600585152915-d208bec867a1?w=800",
			},
			Amenities:  []string{"Wifi", "Aire acondicionado", "Cocina", "Vistas al Río", "Estacionamiento"},
			OwnerEmail: sampleOwnerEmail,
		},
		{
			Title:         "Casa con Piscina en Villa Allende",
			Description:   "Casa amplia con piscina y jardín en zona residencial tranquila.",
			Location:      "Villa Allende, Córdoba",
			PricePerNight: 25000,
			Capacity:      8,
			CoverImage:    img + "photo-1600047509807-ba8f99d2cdde?w=800",
			Images: []string{
				img + "photo-1600047509807-ba8f99d2cdde?w=800",
				img + "photo-1600566752355-35792bedcfea?w=800",
			},
			Amenities:  []string{"Wifi", "Aire acondicionado", "Cocina", "Piscina", "Estacionamiento", "Jardín"},
			OwnerEmail: sampleOwnerEmail,
		},
		{
			Title:         "Estudio en Zona Norte",
			Description:   "Estudio compacto y funcional, bien comunicado con transporte público.",
			Location:      "Zona Norte, Córdoba",
			PricePerNight: 8000,
			Capacity:      2,
			CoverImage:    img + "photo-1522771739844-6a9f6d5f14af?w=800",
			Images:        []string{img + "photo-1522771739844-6a9f6d5f14af?w=800"},
			Amenities:     []string{"Wifi", "Aire acondicionado"},
			OwnerEmail:    sampleOwnerEmail,
		},
	}
}
