package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         string
	DatabaseDSN      string
	JWTSecret        string
	CORSOrigins      string
	SnapshotJobToken string // token compartilhado usado pelo agendador externo do snapshot
}

func Load() *Config {
	// .env é opcional (desenvolvimento local); em produção tudo vem do ambiente
	if err := godotenv.Load(); err == nil {
		log.Println(".env carregado")
	}

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=stockdash port=5432 sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		SnapshotJobToken: getEnv("SNAPSHOT_JOB_TOKEN", ""),
	}

	// Checagens de segurança para produção
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] Variável JWT_SECRET não definida! Obrigatória para produção.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET precisa ter no mínimo 32 caracteres!")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=stockdash port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN usando valor padrão, defina a sua conexão Postgres em produção.")
	}
	if cfg.SnapshotJobToken == "" {
		log.Println("[WARN] SNAPSHOT_JOB_TOKEN não definido, o job de snapshot só aceitará JWT de usuário.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
