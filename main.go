package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Brandon-bit8/LaloA/internal/api"
	"github.com/Brandon-bit8/LaloA/internal/config"
	"github.com/Brandon-bit8/LaloA/internal/database"
	"github.com/Brandon-bit8/LaloA/internal/migrations"
	"github.com/Brandon-bit8/LaloA/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.Run(db, "assets/productos.csv")

	handler := api.New(db, cfg.Secret)

	logrus.Infof("ferretería server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
