package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"account-service/internal/domain"
	"account-service/internal/handler"
	"account-service/internal/router"
	"account-service/internal/service/auth"
	"account-service/internal/service/verification"
	"account-service/pkg/jwtutil"
	"account-service/pkg/middleware"
	xerrors "account-service/pkg/xerrors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range f.byEmail {
		if existing.Email == u.Email {
			return nil, xerrors.ErrEmailAlreadyInUse
		}
		if existing.Name == u.Name {
			return nil, xerrors.ErrNameAlreadyInUse
		}
	}
	saved := *u
	saved.ID = f.nextID
	f.nextID++
	f.byEmail[saved.Email] = &saved
	return &saved, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, xerrors.ErrUserNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for email, u := range f.byEmail {
		if u.ID == id {
			delete(f.byEmail, email)
			return nil
		}
	}
	return xerrors.ErrUserNotFound
}

type fakeVerificationRepo struct {
	records map[int64]*domain.UserVerification
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{records: map[int64]*domain.UserVerification{}}
}

func (f *fakeVerificationRepo) Upsert(_ context.Context, userID int64, code string) error {
	if rec, ok := f.records[userID]; ok {
		rec.Code = code
		rec.IsVerified = false
		return nil
	}
	f.records[userID] = &domain.UserVerification{UserID: userID, Code: code}
	return nil
}

func (f *fakeVerificationRepo) GetByUserID(_ context.Context, userID int64) (*domain.UserVerification, error) {
	rec, ok := f.records[userID]
	if !ok {
		return nil, xerrors.ErrVerificationNotFound
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeVerificationRepo) MarkVerified(_ context.Context, userID int64) error {
	rec, ok := f.records[userID]
	if !ok {
		return xerrors.ErrVerificationNotFound
	}
	rec.IsVerified = true
	return nil
}

type fakeNotifier struct {
	sendErr error
	sent    []string
}

func (f *fakeNotifier) SendVerificationCode(_ context.Context, _, code string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, code)
	return nil
}

// --- harness ---

type testApp struct {
	router   http.Handler
	users    *fakeUserRepo
	codes    *fakeVerificationRepo
	notifier *fakeNotifier
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := newFakeUserRepo()
	codes := newFakeVerificationRepo()
	notifier := &fakeNotifier{}

	issuer := jwtutil.NewIssuer("test-secret", "account-service")
	codeSvc := verification.NewService(codes, nil)
	svc := auth.NewService(users, codeSvc, notifier, issuer, time.Hour)

	r := chi.NewRouter()
	router.SetupRoutes(r, handler.NewAccountHandler(svc), middleware.New(issuer))

	return &testApp{router: r, users: users, codes: codes, notifier: notifier}
}

func (a *testApp) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) register(t *testing.T, name, email, phone string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"name":        name,
		"national_id": "123.456.789-00",
		"phone":       phone,
		"email":       email,
		"password":    "p1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.do(t, req)
}

func (a *testApp) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

func (a *testApp) loginToken(t *testing.T, email, password string) string {
	t.Helper()
	rec := a.login(t, email, password)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.Data.TokenType)
	return resp.Data.AccessToken
}

// --- tests ---

func TestRegister_CreatedWithoutPasswordField(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := app.register(t, "alice", "a@x.com", "+5511999998888")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	var resp struct {
		Data domain.UserPublic `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.Equal(t, "alice", resp.Data.Name)
	assert.Equal(t, "common", resp.Data.AccessLevel)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, app.register(t, "alice", "a@x.com", "+5511999998888").Code)

	rec := app.register(t, "someone-else", "a@x.com", "+5511999998888")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_DuplicateNameConflict(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, app.register(t, "alice", "a@x.com", "+5511999998888").Code)

	rec := app.register(t, "alice", "b@x.com", "+5511999998888")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_BadEmail(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := app.register(t, "alice", "not-an-email", "+5511999998888")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_ReturnsBearerToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, app.register(t, "alice", "a@x.com", "+5511999998888").Code)

	token := app.loginToken(t, "a@x.com", "p1")
	assert.NotEmpty(t, token)

	// First login of an unverified account delivered a code.
	require.Len(t, app.notifier.sent, 1)
	assert.Regexp(t, `^\d{6}$`, app.notifier.sent[0])
}

func TestLogin_UniformUnauthorizedBody(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, app.register(t, "alice", "a@x.com", "+5511999998888").Code)

	unknown := app.login(t, "nobody@x.com", "p1")
	wrongPass := app.login(t, "a@x.com", "wrong")

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, unknown.Body.String(), wrongPass.Body.String())
}

func TestLogin_DeliveryFailureIsBadGateway(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, app.register(t, "alice", "a@x.com", "+5511999998888").Code)
	app.notifier.sendErr = errors.New("provider timeout")

	rec := app.login(t, "a@x.com", "p1")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "provider timeout")
}

func TestVerifyCode_Flow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, app.register(t, "alice", "a@x.com", "+5511999998888").Code)
	app.loginToken(t, "a@x.com", "p1")
	require.Len(t, app.notifier.sent, 1)
	code := app.notifier.sent[0]

	verify := func(userID int64, code string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{"user_id": userID, "code": code})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-code", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return app.do(t, req)
	}

	// No record for unknown user.
	assert.Equal(t, http.StatusNotFound, verify(99, code).Code)

	// Wrong code.
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	assert.Equal(t, http.StatusBadRequest, verify(1, wrong).Code)

	// Match flips to verified; the next login skips delivery.
	assert.Equal(t, http.StatusOK, verify(1, code).Code)
	app.loginToken(t, "a@x.com", "p1")
	assert.Len(t, app.notifier.sent, 1)
}

func TestUsers_RequireToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, app.do(t, req).Code)
}

func TestUsers_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, app.register(t, "alice", "a@x.com", "+5511999998888").Code)
	require.Equal(t, http.StatusCreated, app.register(t, "bob", "b@x.com", "+5511999997777").Code)
	token := app.loginToken(t, "a@x.com", "p1")

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return app.do(t, req)
	}

	// Own account.
	rec := get("/api/v1/users/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	// Someone else's.
	assert.Equal(t, http.StatusForbidden, get("/api/v1/users/2").Code)

	// Delete is owner-only too.
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, app.do(t, req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/users/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, app.do(t, req).Code)
}

func TestListUsers_PublicProjection(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, app.register(t, "alice", "a@x.com", "+5511999998888").Code)
	require.Equal(t, http.StatusCreated, app.register(t, "bob", "b@x.com", "+5511999997777").Code)
	token := app.loginToken(t, "a@x.com", "p1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := app.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var resp struct {
		Data struct {
			Users []domain.UserPublic `json:"users"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Users, 2)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/auth/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

