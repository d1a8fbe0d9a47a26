package services

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/sahilm98/askora/internal/apperr"
	"github.com/sahilm98/askora/internal/config"
	"github.com/sahilm98/askora/internal/db"
	"github.com/sahilm98/askora/internal/models"
)

// AuthService handles registration, login and token issuing.
type AuthService struct {
	users      *mongo.Collection
	secret     []byte
	tokenTTL   time.Duration
	adminEmail string
}

func NewAuthService(database *mongo.Database, cfg config.Config) *AuthService {
	return &AuthService{
		users:      database.Collection(db.Users),
		secret:     []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		adminEmail: cfg.AdminEmail,
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT generates a signed token carrying the user ID and role.
func (s *AuthService) GenerateJWT(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Register creates a new user account. The role is always "user" unless the
// email matches the configured bootstrap admin address.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(username) < 3 {
		return models.User{}, apperr.Invalid("username must be at least 3 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, apperr.Invalid("invalid email address")
	}
	if len(password) < 6 {
		return models.User{}, apperr.Invalid("password must be at least 6 characters")
	}

	// Check if user already exists
	var existing models.User
	err := s.users.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": username},
	}}).Decode(&existing)
	if err == nil {
		if existing.Email == email {
			return models.User{}, apperr.Invalid("email already in use")
		}
		return models.User{}, apperr.Invalid("username already taken")
	}
	if err != mongo.ErrNoDocuments {
		return models.User{}, err
	}

	// Hash password
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	role := models.RoleUser
	if s.adminEmail != "" && email == strings.ToLower(s.adminEmail) {
		role = models.RoleAdmin
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login authenticates a user and returns a JWT with role info.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return "", "", apperr.Unauthorized("invalid credentials")
	}

	// Verify password
	if !VerifyPassword(password, user.Password) {
		return "", "", apperr.Unauthorized("invalid credentials")
	}

	token, err := s.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// Me returns the account behind a token's user ID.
func (s *AuthService) Me(ctx context.Context, userID string) (models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, apperr.Invalid("invalid user ID")
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}
