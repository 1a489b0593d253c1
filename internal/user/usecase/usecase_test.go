package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stocklog/inventory-service/internal/apperr"
	"github.com/stocklog/inventory-service/internal/auth"
	"github.com/stocklog/inventory-service/internal/model"
	"github.com/stocklog/inventory-service/internal/user"
	"github.com/stocklog/inventory-service/internal/user/dto"
	"github.com/stocklog/inventory-service/pkg/logger"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]model.User)}
}

func (m *memRepo) Create(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (m *memRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Update(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *memRepo) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

type captureMailer struct {
	mu   sync.Mutex
	to   string
	body string
	sent int
}

func (m *captureMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = to
	m.body = htmlBody
	m.sent++
	return nil
}

func newTestUseCase(repo *memRepo, mail *captureMailer) (user.UseCase, *auth.Manager) {
	tokens := auth.NewManager("test-secret")
	uc := NewUserUseCase(repo, tokens, mail, logger.NewNop(), Options{
		SessionTTL: time.Hour,
		ResetTTL:   15 * time.Minute,
		ClientURL:  "http://localhost:5173",
	})
	return uc, tokens
}

func register(t *testing.T, uc user.UseCase) *dto.AuthResult {
	t.Helper()
	res, err := uc.Register(context.Background(), &dto.RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		PhoneNo:  "555-0100",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return res
}

func TestRegister(t *testing.T) {
	repo := newMemRepo()
	uc, tokens := newTestUseCase(repo, &captureMailer{})

	res := register(t, uc)

	if res.Token == "" || res.User.ID == "" {
		t.Fatalf("expected token and user id, got %+v", res)
	}
	if res.User.PasswordHash == "correct horse" {
		t.Error("password must not be stored in the clear")
	}

	claims, err := tokens.Parse(res.Token)
	if err != nil || claims.UserID != res.User.ID {
		t.Errorf("token must carry the user id: %v", err)
	}

	// Same email again, case-insensitively.
	_, err = uc.Register(context.Background(), &dto.RegisterInput{
		Name: "Ada2", Email: "ADA@example.com", Password: "another pass",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	repo := newMemRepo()
	uc, _ := newTestUseCase(repo, &captureMailer{})

	cases := []dto.RegisterInput{
		{Email: "a@b.c", Password: "long enough"},             // no name
		{Name: "Ada", Email: "not-an-email", Password: "long enough"},
		{Name: "Ada", Email: "a@b.c", Password: "short"},
	}
	for _, input := range cases {
		if _, err := uc.Register(context.Background(), &input); !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestLogin(t *testing.T) {
	repo := newMemRepo()
	uc, _ := newTestUseCase(repo, &captureMailer{})
	register(t, uc)

	res, err := uc.Login(context.Background(), &dto.LoginInput{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Error("expected a session token")
	}

	if _, err := uc.Login(context.Background(), &dto.LoginInput{Email: "ada@example.com", Password: "wrong"}); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized for bad password, got %v", err)
	}
	if _, err := uc.Login(context.Background(), &dto.LoginInput{Email: "ghost@example.com", Password: "x"}); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found for unknown email, got %v", err)
	}
}

func TestUpdateProfile_Patch(t *testing.T) {
	repo := newMemRepo()
	uc, _ := newTestUseCase(repo, &captureMailer{})
	res := register(t, uc)

	phone := "555-0199"
	updated, err := uc.UpdateProfile(context.Background(), res.User.ID, &dto.UpdateProfileInput{PhoneNo: &phone})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PhoneNo != phone {
		t.Errorf("expected phone updated, got %q", updated.PhoneNo)
	}
	if updated.Name != "Ada" || updated.Email != "ada@example.com" {
		t.Errorf("nil fields must stay unchanged, got %+v", updated)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newMemRepo()
	mail := &captureMailer{}
	uc, _ := newTestUseCase(repo, mail)
	res := register(t, uc)

	if err := uc.ForgotPassword(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	if mail.sent != 1 || mail.to != "ada@example.com" {
		t.Fatalf("expected one reset mail to the user, got %+v", mail)
	}

	stored, _ := repo.FindByID(context.Background(), res.User.ID)
	if stored.ResetToken == nil || stored.ResetTokenExpires == nil {
		t.Fatal("expected reset token persisted")
	}
	if !strings.Contains(mail.body, *stored.ResetToken) {
		t.Error("mail must contain the reset link token")
	}

	if err := uc.ResetPassword(context.Background(), *stored.ResetToken, "new password 1"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	// Old password no longer works, new one does, token is cleared.
	if _, err := uc.Login(context.Background(), &dto.LoginInput{Email: "ada@example.com", Password: "correct horse"}); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("expected old password rejected, got %v", err)
	}
	if _, err := uc.Login(context.Background(), &dto.LoginInput{Email: "ada@example.com", Password: "new password 1"}); err != nil {
		t.Errorf("expected new password accepted, got %v", err)
	}

	after, _ := repo.FindByID(context.Background(), res.User.ID)
	if after.ResetToken != nil || after.ResetTokenExpires != nil {
		t.Error("reset token must be cleared after use")
	}
}

func TestResetPassword_Expired(t *testing.T) {
	repo := newMemRepo()
	mail := &captureMailer{}
	uc, _ := newTestUseCase(repo, mail)
	res := register(t, uc)

	if err := uc.ForgotPassword(context.Background(), "ada@example.com"); err != nil {
		t.Fatal(err)
	}

	stored, _ := repo.FindByID(context.Background(), res.User.ID)
	expired := time.Now().Add(-time.Minute)
	stored.ResetTokenExpires = &expired
	_ = repo.Update(context.Background(), stored)

	if err := uc.ResetPassword(context.Background(), *stored.ResetToken, "new password 1"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error for expired token, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	repo := newMemRepo()
	uc, _ := newTestUseCase(repo, &captureMailer{})
	res := register(t, uc)

	if err := uc.DeleteAccount(context.Background(), res.User.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := uc.DeleteAccount(context.Background(), res.User.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}
