package main

import (
	"flag"
	"log"
	"os"

	"github.com/NordCoder/ProjectEye/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

func main() {
	_ = godotenv.Load()

	command := flag.String("command", "up", "goose command: up, down, status, reset")
	flag.Parse()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL is empty")
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("set dialect: %v", err)
	}
	db, err := goose.OpenDBWithDriver("pgx", dbURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := goose.Run(*command, db, "."); err != nil {
		log.Fatalf("migrate %s: %v", *command, err)
	}
	log.Printf("migrations: %s OK", *command)
}
