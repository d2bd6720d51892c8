package httpCors

import (
	"os"

	"github.com/rs/cors"
)

func CorsSettings() *cors.Cors {
	origins := []string{"*"} // Установите конкретные домены, если нужно ограничить доступ
	if env := os.Getenv("CORS_ORIGIN"); env != "" {
		origins = []string{env}
	}

	c := cors.New(cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Authorization"},
	})
	return c
}
