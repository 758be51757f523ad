// Command seed creates the default staff account in the auth database and a
// demo category tree in the directory database.
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"baggr-backend/config"
	"baggr-backend/database"
	"baggr-backend/logger"
	"baggr-backend/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type demoCategory struct {
	name     string
	children []demoCategory
}

var demoTree = []demoCategory{
	{name: "Restaurants", children: []demoCategory{
		{name: "Italian", children: []demoCategory{{name: "Pizza"}, {name: "Trattoria"}}},
		{name: "Thai"},
		{name: "Cafes"},
	}},
	{name: "Hotels", children: []demoCategory{{name: "Boutique"}, {name: "Hostels"}}},
	{name: "Health", children: []demoCategory{{name: "Dentists"}, {name: "Pharmacies"}}},
}

func main() {
	config.LoadEnv()

	authDSN := flag.String("auth-db", config.GetEnv("AUTH_DATABASE_URL", ""), "auth service database URL")
	directoryDSN := flag.String("directory-db", config.GetEnv("DIRECTORY_DATABASE_URL", ""), "directory service database URL")
	skipStaff := flag.Bool("skip-staff", false, "do not create the default staff user")
	skipTree := flag.Bool("skip-tree", false, "do not create the demo category tree")
	flag.Parse()

	zlog, err := logger.New(config.GetEnv("APP_ENV", "development"))
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	if !*skipStaff {
		if err := seedStaff(*authDSN); err != nil {
			zlog.Fatal("seeding staff user failed", zap.Error(err))
		}
	}
	if !*skipTree {
		if err := seedTree(*directoryDSN); err != nil {
			zlog.Fatal("seeding category tree failed", zap.Error(err))
		}
	}
}

func seedStaff(dsn string) error {
	db, err := database.Connect(dsn)
	if err != nil {
		return err
	}
	if err := database.MigrateAuth(db); err != nil {
		return err
	}
	return database.CreateDefaultStaff(db)
}

func seedTree(dsn string) error {
	db, err := database.Connect(dsn)
	if err != nil {
		return err
	}
	if err := database.MigrateDirectory(db); err != nil {
		return err
	}

	store := services.NewCategoryStore(db, true)
	return createTree(context.Background(), store, nil, demoTree)
}

// createTree is idempotent: categories whose name already exists are reused.
func createTree(ctx context.Context, store *services.CategoryStore, parent *uuid.UUID, nodes []demoCategory) error {
	for _, n := range nodes {
		var id uuid.UUID
		cat, err := store.Create(ctx, services.CategoryInput{Name: n.name, ParentID: parent})
		switch {
		case err == nil:
			id = cat.ID
			zap.L().Info("category created", zap.String("name", cat.Name), zap.String("slug", cat.Slug))
		case errors.Is(err, services.ErrConflict):
			existing, err := findByName(store.DB, n.name)
			if err != nil {
				return err
			}
			id = existing
		default:
			return err
		}

		if err := createTree(ctx, store, &id, n.children); err != nil {
			return err
		}
	}
	return nil
}

func findByName(db *gorm.DB, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.Table("categories").Select("id").Where("name = ?", name).Row().Scan(&id)
	return id, err
}
