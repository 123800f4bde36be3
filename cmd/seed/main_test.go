package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/core/ports"
	"github.com/alquilercordoba/rental-system/internal/core/service"
	"github.com/alquilercordoba/rental-system/internal/infrastructure/db/sqlstore"
)

func TestSeedCatalog_OnlyFillsEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	store, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:     sqlstore.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "seed.sqlite"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	log := zerolog.Nop()
	auth := service.NewAuthService(sqlstore.NewUserRepository(store), "secret", time.Hour, log)
	properties := sqlstore.NewPropertyRepository(store)

	created, err := seedCatalog(ctx, auth, properties, log)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if created != len(sampleProperties()) {
		t.Fatalf("created %d, want %d", created, len(sampleProperties()))
	}

	created, err = seedCatalog(ctx, auth, properties, log)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if created != 0 {
		t.Fatalf("second run created %d properties", created)
	}

	owned, err := properties.Filter(ctx, ports.PropertyFilter{OwnerEmail: sampleOwnerEmail})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(owned) != len(sampleProperties()) {
		t.Fatalf("owner has %d properties, want %d", len(owned), len(sampleProperties()))
	}

	if _, _, err := auth.Login(ctx, sampleOwnerEmail, sampleOwnerPassword); err != nil {
		t.Fatalf("sample owner cannot log in: %v", err)
	}
}
