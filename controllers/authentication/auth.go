package authentication

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/wensaqt/twitter-clone/config"
	"github.com/wensaqt/twitter-clone/controllers/httpjson"
	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/storage"
)

var JwtKey = []byte(os.Getenv("JWT_SECRET"))

var (
	ErrNoToken      = errors.New("authorization header required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Валидация входных данных при регистрации.
var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
)

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// GenerateToken создает JWT на 24 часа.
func GenerateToken(user *models.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}

// ValidateToken разбирает Bearer-токен из заголовка Authorization.
func ValidateToken(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrNoToken
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// OptionalUserID возвращает ID зрителя или пустую строку для анонима.
func OptionalUserID(r *http.Request) string {
	claims, err := ValidateToken(r)
	if err != nil {
		return ""
	}
	return claims.UserID
}

type registerStepOneRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type registerStepTwoRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register — двухшаговая регистрация: шаг 1 резервирует email,
// шаг 2 проверяет username, хэширует пароль и создает пользователя.
func Register(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	if r.Method != http.MethodPost {
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}

	step := r.URL.Query().Get("step")
	switch step {
	case "1":
		var req registerStepOneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if !emailRegex.MatchString(req.Email) {
			httpjson.Error(w, http.StatusBadRequest, "Invalid email")
			return
		}
		if _, err := store.GetUserByEmail(r.Context(), req.Email); err == nil {
			httpjson.Error(w, http.StatusBadRequest, "Email already exists")
			return
		}
		httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})

	case "2":
		var req registerStepTwoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if !emailRegex.MatchString(req.Email) {
			httpjson.Error(w, http.StatusBadRequest, "Invalid email")
			return
		}
		if !usernameRegex.MatchString(req.Username) {
			httpjson.Error(w, http.StatusBadRequest, "Invalid username")
			return
		}
		if len(req.Password) < 6 {
			httpjson.Error(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		if _, err := store.GetUserByUsername(r.Context(), req.Username); err == nil {
			httpjson.Error(w, http.StatusBadRequest, "Username already exists")
			return
		}
		if _, err := store.GetUserByEmail(r.Context(), req.Email); err == nil {
			httpjson.Error(w, http.StatusBadRequest, "Email already exists")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error hashing password")
			return
		}

		user := &models.User{
			Name:     req.Name,
			Email:    req.Email,
			Username: req.Username,
			Password: string(hashedPassword),
		}
		user, err = store.CreateUser(r.Context(), user)
		if err != nil {
			// Проигранная гонка после предварительных проверок.
			if errors.Is(err, storage.ErrDuplicate) {
				httpjson.Error(w, http.StatusBadRequest, "Email or username already exists")
				return
			}
			httpjson.Error(w, http.StatusInternalServerError, "Error creating user")
			return
		}

		tokenString, err := GenerateToken(user)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error generating token")
			return
		}

		saveSession(w, r, user.ID)
		httpjson.Respond(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    user,
			"token":   tokenString,
		})

	default:
		httpjson.Error(w, http.StatusBadRequest, "Unknown registration step")
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login — вход по email и паролю, выдача JWT.
func Login(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	if r.Method != http.MethodPost {
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Email does not exist")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Incorrect password")
		return
	}

	tokenString, err := GenerateToken(user)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	saveSession(w, r, user.ID)
	httpjson.Respond(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": tokenString,
	})
}

// Logout завершает cookie-сессию.
func Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := config.Store.Get(r, "session-name")
	delete(session.Values, "userID")
	session.Options.MaxAge = -1
	session.Save(r, w)
	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func saveSession(w http.ResponseWriter, r *http.Request, userID string) {
	session, _ := config.Store.Get(r, "session-name")
	session.Values["userID"] = userID
	session.Save(r, w)
}

type updateProfileRequest struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Bio          string `json:"bio"`
	Location     string `json:"location"`
	ProfileImage string `json:"profileImage"`
	CoverImage   string `json:"coverImage"`
}

// Profile — получение и обновление профиля по токену.
func Profile(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	claims, err := ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "User not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		httpjson.Respond(w, http.StatusOK, user)

	case http.MethodPut:
		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if req.Username != "" && req.Username != user.Username {
			if !usernameRegex.MatchString(req.Username) {
				httpjson.Error(w, http.StatusBadRequest, "Invalid username")
				return
			}
			if _, err := store.GetUserByUsername(r.Context(), req.Username); err == nil {
				httpjson.Error(w, http.StatusBadRequest, "Username already exists")
				return
			}
			user.Username = req.Username
		}
		if req.Name != "" {
			user.Name = req.Name
		}
		user.Bio = req.Bio
		user.Location = req.Location
		if req.ProfileImage != "" {
			user.ProfileImage = req.ProfileImage
		}
		if req.CoverImage != "" {
			user.CoverImage = req.CoverImage
		}

		if err := store.UpdateUser(r.Context(), user); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error updating profile")
			return
		}
		httpjson.Respond(w, http.StatusOK, user)

	default:
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
	}
}
