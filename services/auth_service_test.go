package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/techagentng/chatx/config"
	"github.com/techagentng/chatx/db/dbtest"
	"github.com/techagentng/chatx/models"
	"github.com/techagentng/chatx/services"
	"github.com/techagentng/chatx/services/jwt"
)

func newAuthService(t *testing.T) (services.AuthService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return services.NewAuthService(env.store.Users, &config.Config{JWTSecret: "secret"}), env
}

func TestSignupAndLogin(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	user, err := auth.SignupUser(ctx, &models.SignupRequest{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		UserName:  " Ada ",
		Password:  "engine123",
	})
	if err != nil {
		t.Fatalf("SignupUser() error = %v", err)
	}
	if user.UserName != "ada" || user.FirstName != "Ada" {
		t.Errorf("expected trimmed, lower-cased user name, got %+v", user)
	}
	if user.HashedPassword == "" || user.HashedPassword == "engine123" {
		t.Error("expected the password to be hashed")
	}

	resp, err := auth.LoginUser(ctx, &models.LoginRequest{UserName: "ada", Password: "engine123"})
	if err != nil {
		t.Fatalf("LoginUser() error = %v", err)
	}
	claims, err := jwt.ValidateAndGetClaims(resp.AccessToken, "secret")
	if err != nil {
		t.Fatalf("ValidateAndGetClaims() error = %v", err)
	}
	if id, _ := jwt.UserID(claims); id != user.ID || resp.User.ID != user.ID {
		t.Errorf("expected token for %s, got %s", user.ID, id)
	}

	profile, err := auth.GetUserProfile(ctx, user.ID)
	if err != nil || profile.UserName != "ada" {
		t.Errorf("unexpected profile %+v (err %v)", profile, err)
	}
}

func TestSignupRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	auth, env := newAuthService(t)
	ctx := context.Background()
	dbtest.User(t, env.store, "Bob", "Jones", "bob")

	_, err := auth.SignupUser(ctx, &models.SignupRequest{FirstName: "Bob", UserName: "bob", Password: "secret99"})
	assertStatus(t, err, http.StatusConflict)

	_, err = auth.SignupUser(ctx, &models.SignupRequest{FirstName: "Eve", UserName: "eve", Password: "123"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = auth.SignupUser(ctx, &models.SignupRequest{UserName: "nofirst", Password: "secret99"})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()
	if _, err := auth.SignupUser(ctx, &models.SignupRequest{FirstName: "Ada", UserName: "ada", Password: "engine123"}); err != nil {
		t.Fatalf("SignupUser() error = %v", err)
	}

	_, err := auth.LoginUser(ctx, &models.LoginRequest{UserName: "ada", Password: "wrong-pass"})
	assertStatus(t, err, http.StatusUnprocessableEntity)

	_, err = auth.LoginUser(ctx, &models.LoginRequest{UserName: "nobody", Password: "engine123"})
	assertStatus(t, err, http.StatusUnprocessableEntity)
}
