package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:   "test-secret",
			ExpireHours: 1,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8},
		},
	}
	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, token, _, err := svc.Register(RegisterInput{
		Email:    "Buyer@Example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "buyer@example.com" {
		t.Fatalf("email should be normalized, got %s", user.Email)
	}
	if user.Username != "buyer" {
		t.Fatalf("username should derive from email, got %s", user.Username)
	}
	if user.Role != constants.RoleCustomer {
		t.Fatalf("default role want customer got %s", user.Role)
	}
	if token == "" {
		t.Fatal("register should return a token")
	}

	// 邮箱查找不区分大小写
	if _, _, _, err := svc.Login("buyer@example.com", "password1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, _, _, err := svc.Login("buyer@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "password1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad email want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "a@example.com", Password: "short"}); err == nil {
		t.Fatal("weak password should be rejected")
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "a@example.com", Password: "password1", Role: constants.RoleAdmin}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("admin self-registration want ErrPermissionDenied got %v", err)
	}

	if _, _, _, err := svc.Register(RegisterInput{Email: "seller@example.com", Password: "password1", Role: constants.RoleSeller}); err != nil {
		t.Fatalf("seller registration failed: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "seller@example.com", Password: "password1"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email want ErrEmailTaken got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register(RegisterInput{Email: "banned@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	if _, _, _, err := svc.Login("banned@example.com", "password1"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled user want ErrUserDisabled got %v", err)
	}
}

func TestParseUserJWTRoundTrip(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, token, _, err := svc.Register(RegisterInput{Email: "jwt@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != user.Role {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.TokenVersion != user.TokenVersion {
		t.Fatalf("token version want %d got %d", user.TokenVersion, claims.TokenVersion)
	}

	if _, err := svc.ParseUserJWT("not-a-token"); err == nil {
		t.Fatal("garbage token should fail to parse")
	}
}

func TestChangePasswordInvalidatesToken(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register(RegisterInput{Email: "rotate@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong-pass", "password2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password want ErrInvalidCredentials got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "password1", "short"); err == nil {
		t.Fatal("weak new password should be rejected")
	}
	if err := svc.ChangePassword(user.ID, "password1", "password2"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	var got models.User
	if err := db.First(&got, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if got.TokenVersion != user.TokenVersion+1 || got.TokenInvalidBefore == nil {
		t.Fatalf("password change should bump token version: %+v", got)
	}

	if _, _, _, err := svc.Login("rotate@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, _, _, err := svc.Login("rotate@example.com", "password2"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
