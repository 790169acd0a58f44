// Command seed наполняет базу магазина.
//
//	seed products
//	seed add-admin -email admin@shop.local -password secret1 [-first Ann] [-last Lee]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/migrations"
	"github.com/magabrotheeeer/storefront/internal/seed"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: seed products | seed add-admin -email EMAIL -password PASSWORD [-first NAME] [-last NAME]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to database", sl.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to apply migrations", sl.Err(err))
		os.Exit(1)
	}
	if err := db.CheckDatabaseReady(ctx); err != nil {
		logger.Error("database is not ready", sl.Err(err))
		os.Exit(1)
	}

	switch os.Args[1] {
	case "products":
		var productCache seed.ProductCache
		if c, err := cache.InitServer(ctx, cfg.RedisConnection); err != nil {
			logger.Warn("redis unavailable, cached products are not flushed", sl.Err(err))
		} else {
			defer c.Close()
			productCache = c
		}

		products, err := seed.Products(ctx, logger, db, productCache)
		if err != nil {
			logger.Error("failed to seed products", sl.Err(err))
			os.Exit(1)
		}
		for _, p := range products {
			logger.Info("product added",
				slog.String("name", p.Name),
				slog.String("price", p.Price.StringFixed(2)),
				slog.String("category", string(p.Category)),
			)
		}
		logger.Info("product seeding completed", slog.Int("count", len(products)))

	case "add-admin":
		fs := flag.NewFlagSet("add-admin", flag.ExitOnError)
		email := fs.String("email", "", "admin email")
		pass := fs.String("password", "", "admin password, at least 6 characters")
		first := fs.String("first", "Admin", "first name")
		last := fs.String("last", "User", "last name")
		_ = fs.Parse(os.Args[2:])

		user, created, err := seed.AddAdmin(ctx, db, seed.Admin{
			FirstName: *first,
			LastName:  *last,
			Email:     *email,
			Password:  *pass,
		})
		if err != nil {
			logger.Error("failed to add admin", sl.Err(err))
			os.Exit(1)
		}
		if created {
			logger.Info("admin created", slog.String("email", user.Email))
		} else {
			logger.Info("existing user promoted to admin", slog.String("email", user.Email))
		}

	default:
		usage()
		os.Exit(2)
	}
}
