package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/majoradvisor-backend/internal/data/db"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/domain/auth"
	"github.com/yungbote/majoradvisor-backend/internal/platform/ctxutil"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

type JWTClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type CreateUserInput struct {
	Email        string
	Password     string
	FullName     string
	Role         string
	UniversityID *uuid.UUID
	TeacherID    *uuid.UUID
	Age          *int
	Gender       *string
}

type AuthService interface {
	// Login returns a signed access token for valid credentials.
	Login(ctx context.Context, email, password string) (string, *types.User, error)
	// CreateUser registers an account. Student accounts also get a profile
	// row sharing the user's id.
	CreateUser(ctx context.Context, in CreateUserInput) (*types.User, error)
	ParseToken(tokenString string) (types.Principal, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetMe(ctx context.Context, p types.Principal) (*types.User, error)
	TokenTTL() time.Duration
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	studentRepo repos.StudentRepo
	jwtSecret   []byte
	ttl         time.Duration
	now         func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	studentRepo repos.StudentRepo,
	jwtSecretKey string,
	ttl time.Duration,
) AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &authService{
		db:          db,
		log:         log.With("service", "AuthService"),
		userRepo:    userRepo,
		studentRepo: studentRepo,
		jwtSecret:   []byte(jwtSecretKey),
		ttl:         ttl,
		now:         time.Now,
	}
}

func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (as *authService) TokenTTL() time.Duration { return as.ttl }

func (as *authService) Login(ctx context.Context, email, password string) (string, *types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, invalidArgument("missing_credentials", "Email and password are required")
	}
	user, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return "", nil, unauthorized("invalid_credentials", "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, unauthorized("invalid_credentials", "Invalid email or password")
	}
	role, err := auth.ParseRole(user.Role)
	if err != nil {
		as.log.Warn("user has unknown role", "user_id", user.ID, "role", user.Role)
		return "", nil, unauthorized("invalid_credentials", "Invalid email or password")
	}
	token, err := as.signToken(user, role)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (as *authService) signToken(user *types.User, role auth.Role) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Email: user.Email,
		Name:  user.FullName,
		Role:  role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecret)
}

func (as *authService) CreateUser(ctx context.Context, in CreateUserInput) (*types.User, error) {
	role, err := auth.ParseRole(in.Role)
	if err != nil {
		return nil, invalidArgument("invalid_role", "Invalid role")
	}
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, invalidArgument("missing_fields", "All required fields must be provided")
	}
	if role == auth.RoleUniversity && in.UniversityID == nil {
		return nil, invalidArgument("missing_university", "University ID is required for university users")
	}
	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, invalidArgument("missing_fields", "All required fields must be provided")
	}

	user := &types.User{
		ID:           uuid.New(),
		Email:        in.Email,
		Password:     hashed,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         role.String(),
		UniversityID: in.UniversityID,
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := as.userRepo.EmailExists(dbc, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return conflict("email_exists", "Email already exists")
		}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			return err
		}
		if role != auth.RoleStudent {
			return nil
		}
		_, err = as.studentRepo.Create(dbc, []*types.Student{{
			ID:        user.ID,
			FullName:  user.FullName,
			Email:     user.Email,
			Age:       in.Age,
			Gender:    in.Gender,
			TeacherID: in.TeacherID,
		}})
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, conflict("email_exists", "Email already exists")
		}
		return nil, err
	}
	as.log.Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (as *authService) ParseToken(tokenString string) (types.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return types.Principal{}, unauthorized("invalid_token", "Invalid or expired token")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return types.Principal{}, unauthorized("invalid_token", "Invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return types.Principal{}, unauthorized("invalid_token", "Invalid or expired token")
	}
	role, err := auth.ParseRole(claims.Role)
	if err != nil {
		return types.Principal{}, unauthorized("invalid_token", "Invalid or expired token")
	}
	return types.Principal{UserID: userID, Name: claims.Name, Email: claims.Email, Role: role}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, unauthorized("missing_token", "Authentication required")
	}
	p, err := as.ParseToken(tokenString)
	if err != nil {
		return ctx, err
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		rd = &ctxutil.RequestData{}
	} else {
		cp := *rd
		rd = &cp
	}
	rd.TokenString = tokenString
	rd.Principal = p
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetMe(ctx context.Context, p types.Principal) (*types.User, error) {
	user, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("user_not_found", "User not found")
	}
	return user, nil
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (types.Principal, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Principal.UserID == uuid.Nil {
		return types.Principal{}, unauthorized("unauthorized", "Authentication required")
	}
	return rd.Principal, nil
}
