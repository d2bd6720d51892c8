package main

import (
	"log"
	"net/http"
	"os"

	"github.com/wensaqt/twitter-clone/config"
	"github.com/wensaqt/twitter-clone/controllers/authentication"
	"github.com/wensaqt/twitter-clone/controllers/comments"
	"github.com/wensaqt/twitter-clone/controllers/httpCors"
	"github.com/wensaqt/twitter-clone/controllers/notifications"
	"github.com/wensaqt/twitter-clone/controllers/posts"
	"github.com/wensaqt/twitter-clone/controllers/users"
	"github.com/wensaqt/twitter-clone/services"
	"github.com/wensaqt/twitter-clone/storage"
	"github.com/wensaqt/twitter-clone/storage/inmemory"
	"github.com/wensaqt/twitter-clone/storage/postgres"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // Порт по умолчанию
	}

	var store storage.Storage
	if os.Getenv("STORAGE") == "in-memory" {
		log.Println("Запуск с in-memory хранилищем")
		store = inmemory.New()
	} else {
		db, err := config.InitDB()
		if err != nil {
			log.Fatalf("Ошибка инициализации базы данных: %v", err)
		}
		store, err = postgres.New(db)
		if err != nil {
			log.Fatalf("Ошибка миграции базы данных: %v", err)
		}
		log.Println("Подключение к базе данных успешно")
	}

	script := os.Getenv("EMOTION_SCRIPT")
	if script == "" {
		script = "AI/script.py"
	}
	classifier := services.NewScriptClassifier(script)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		authentication.Register(w, r, store)
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		authentication.Login(w, r, store)
	})
	mux.HandleFunc("/api/auth/logout", authentication.Logout)
	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		authentication.Profile(w, r, store)
	})

	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		users.List(w, r, store)
	})
	mux.HandleFunc("/api/users/follow", func(w http.ResponseWriter, r *http.Request) {
		users.FollowHandler(w, r, store)
	})
	mux.HandleFunc("/api/users/resolve", func(w http.ResponseWriter, r *http.Request) {
		users.ByUsername(w, r, store)
	})
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		users.ByID(w, r, store)
	})

	mux.HandleFunc("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		posts.Collection(w, r, store)
	})
	mux.HandleFunc("/api/posts/like", func(w http.ResponseWriter, r *http.Request) {
		posts.LikeHandler(w, r, store)
	})
	mux.HandleFunc("/api/posts/save", func(w http.ResponseWriter, r *http.Request) {
		posts.SaveHandler(w, r, store)
	})
	mux.HandleFunc("/api/posts/saved", func(w http.ResponseWriter, r *http.Request) {
		posts.Saved(w, r, store)
	})
	mux.HandleFunc("/api/posts/user", func(w http.ResponseWriter, r *http.Request) {
		posts.ByUser(w, r, store)
	})
	mux.HandleFunc("/api/posts/", func(w http.ResponseWriter, r *http.Request) {
		posts.ByID(w, r, store)
	})

	mux.HandleFunc("/api/comments", func(w http.ResponseWriter, r *http.Request) {
		comments.Handle(w, r, store, classifier)
	})
	mux.HandleFunc("/api/comments/", func(w http.ResponseWriter, r *http.Request) {
		comments.ByID(w, r, store)
	})

	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		notifications.Handle(w, r, store)
	})

	handler := httpCors.CorsSettings().Handler(mux)

	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
