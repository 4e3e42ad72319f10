// server/internal/database/seeder.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lifelink-api-server/config"
	"lifelink-api-server/internal/auth"
	"lifelink-api-server/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedAdmin creates the bootstrap admin account if it is configured and missing.
func SeedAdmin(ctx context.Context, users *UserStore, cfg config.AdminConfig, log *logrus.Entry) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Debug("No bootstrap admin configured. Seeding skipped.")
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		log.Info("Admin already exists. Seeding skipped.")
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	log.Info("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:      "Admin",
		Email:     email,
		Password:  hashedPassword,
		Role:      models.RoleAdmin,
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
	}
	if err := users.Create(ctx, admin); err != nil && !errors.Is(err, ErrConflict) {
		return err
	}

	log.Info("Admin seeded successfully.")
	return nil
}

// SeedGeo loads districts.json and upazilas.json from dir into the geo tables.
// A table that already exists is left alone, so edits made in the database
// survive a restart.
// Both the bare array form and the phpMyAdmin export form
// ([{type:"header"}, ..., {type:"table", name:"districts", data:[...]}]) are accepted.
func SeedGeo(ctx context.Context, geo *GeoStore, dir string, log *logrus.Entry) error {
	if dir == "" {
		return nil
	}

	var districts []models.District
	found, err := readGeoFile(filepath.Join(dir, "districts.json"), &districts)
	if err != nil {
		return err
	}
	if found {
		if err := seedTable(ctx, geo, models.GeoDistricts, districts, len(districts), log); err != nil {
			return err
		}
	}

	var upazilas []models.Upazila
	found, err = readGeoFile(filepath.Join(dir, "upazilas.json"), &upazilas)
	if err != nil {
		return err
	}
	if found {
		if err := seedTable(ctx, geo, models.GeoUpazilas, upazilas, len(upazilas), log); err != nil {
			return err
		}
	}
	return nil
}

func seedTable(ctx context.Context, geo *GeoStore, name string, rows interface{}, count int, log *logrus.Entry) error {
	seeded, err := geo.SeedTable(ctx, name, rows)
	if err != nil {
		return err
	}
	if !seeded {
		log.WithField("table", name).Info("Geo table already present. Seeding skipped.")
		return nil
	}
	log.WithFields(logrus.Fields{"table": name, "count": count}).Info("Geo table seeded")
	return nil
}

func readGeoFile(path string, out interface{}) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	data, err := geoRows(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// geoRows extracts the row array from either supported file layout.
func geoRows(raw []byte) (json.RawMessage, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	for _, e := range entries {
		var kind string
		if t, ok := e["type"]; ok && json.Unmarshal(t, &kind) == nil && kind == "table" {
			if data, ok := e["data"]; ok {
				return data, nil
			}
		}
	}
	return raw, nil
}

// Bootstrap ensures indexes and seeds reference data on start.
func Bootstrap(ctx context.Context, db *mongo.Database, cfg config.Config, log *logrus.Entry) error {
	if err := EnsureIndexes(ctx, db); err != nil {
		return err
	}
	if err := SeedAdmin(ctx, NewUserStore(db), cfg.Admin, log); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := SeedGeo(ctx, NewGeoStore(db), cfg.Geo.SeedDir, log); err != nil {
		return fmt.Errorf("seed geo: %w", err)
	}
	return nil
}
