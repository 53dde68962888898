package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"contacts_backend/database"
	"contacts_backend/internal/auth"
	"contacts_backend/internal/config"
	"contacts_backend/internal/email"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	mail   *MockEmailProvider
	cfg    *config.Config
}

func newTestApp(t *testing.T, configure ...func(*config.Config)) *testApp {
	t.Helper()
	logger.InitWithWriter("test", &bytes.Buffer{})

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "integration-secret"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Upload.TempDir = t.TempDir()
	cfg.RateLimit.Burst = 1000
	for _, fn := range configure {
		fn(cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mail := &MockEmailProvider{}
	router, err := SetupRouter(ctx, cfg, db, mail)
	require.NoError(t, err)

	return &testApp{router: router, db: db, mail: mail, cfg: cfg}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return errObj["code"].(string)
}

// registerAndLogin проходит полный цикл signup, verify, login
func (a *testApp) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/users/signup", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	link := a.mail.LastLink()
	require.NotEmpty(t, link)
	w = a.do(t, http.MethodGet, strings.TrimPrefix(link, a.cfg.Server.PublicURL), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func contactBody(name string, favorite bool) map[string]interface{} {
	return map[string]interface{}{
		"name":     name,
		"email":    name + "@example.com",
		"phone":    5551234,
		"favorite": favorite,
		"owner":    "whatever123",
	}
}

func (a *testApp) createContact(t *testing.T, token, name string, favorite bool) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/contacts", token, contactBody(name, favorite))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	return data["newContact"].(map[string]interface{})["id"].(string)
}

func TestUsers_RegistrationFlow(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodPost, "/api/users/signup", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(201), body["status"])
	assert.Equal(t, map[string]interface{}{"email": "alice@example.com", "subscription": "starter"}, body["user"])

	w = a.do(t, http.MethodPost, "/api/users/signup", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, a.db.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w = a.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "USER_NOT_VERIFIED", errorCode(t, w))

	verifyPath := strings.TrimPrefix(a.mail.LastLink(), a.cfg.Server.PublicURL)
	require.True(t, strings.HasPrefix(verifyPath, "/api/users/verify/"))

	w = a.do(t, http.MethodGet, verifyPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Verification successful", decode(t, w)["message"])

	w = a.do(t, http.MethodGet, verifyPath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "verification token is single-use")

	w = a.do(t, http.MethodPost, "/api/users/verify", "", map[string]string{"email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ALREADY_VERIFIED", errorCode(t, w))

	w = a.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))

	w = a.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	w = a.do(t, http.MethodGet, "/api/users/current", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "starter", user["subscription"])
	assert.Contains(t, user["avatarURL"], "gravatar.com")
	assert.Len(t, user["id"], 32)
}

func TestUsers_SignupValidation(t *testing.T) {
	a := newTestApp(t)

	cases := []interface{}{
		map[string]string{"email": "alice@example.org", "password": "secret1"},
		map[string]string{"email": "alice@example.com", "password": "123"},
		map[string]string{"email": "not-an-email", "password": "secret1"},
		map[string]string{"password": "secret1"},
		`{"email":`,
	}
	for _, body := range cases {
		w := a.do(t, http.MethodPost, "/api/users/signup", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
	}
	assert.Empty(t, a.mail.Sent)
}

func TestUsers_ResendVerification(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodPost, "/api/users/verify", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing required field email", decode(t, w)["error"].(map[string]interface{})["message"])

	w = a.do(t, http.MethodPost, "/api/users/verify", "", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodPost, "/api/users/signup", "", map[string]string{"email": "bob@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)
	firstLink := a.mail.LastLink()

	w = a.do(t, http.MethodPost, "/api/users/verify", "", map[string]string{"email": "bob@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Verification email sent", decode(t, w)["message"])
	assert.Len(t, a.mail.Sent, 2)

	secondLink := a.mail.LastLink()
	require.NotEqual(t, firstLink, secondLink)

	w = a.do(t, http.MethodGet, strings.TrimPrefix(firstLink, a.cfg.Server.PublicURL), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, strings.TrimPrefix(secondLink, a.cfg.Server.PublicURL), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInitializeEmailProvider_DisabledUsesLogProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Email.Enabled = false

	provider := initializeEmailProvider(cfg)
	assert.IsType(t, &email.LogProvider{}, provider)
}

func TestRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.RateLimit.RequestsPerSecond = 0.001
		cfg.RateLimit.Burst = 1
	})

	var codes []int
	for i := 0; i < 5; i++ {
		body, err := json.Marshal(map[string]string{"email": "ghost@example.com", "password": "secret1"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("1.2.3.%d", i))

		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{
		http.StatusUnauthorized,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}

func TestRateLimit_TrustedProxyForwardsClientIP(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Server.TrustedProxies = []string{"203.0.113.7"}
		cfg.RateLimit.RequestsPerSecond = 0.001
		cfg.RateLimit.Burst = 1
	})

	// за доверенным прокси разные клиенты получают разные корзины
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login",
			strings.NewReader(`{"email":"ghost@example.com","password":"secret1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))

		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestUsers_LoginUnknownEmail(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGate_RejectsBadTokens(t *testing.T) {
	a := newTestApp(t)
	token := a.registerAndLogin(t, "alice@example.com")

	var user models.User
	require.NoError(t, a.db.Where("email = ?", "alice@example.com").First(&user).Error)

	foreign, err := auth.NewTokenManager("other-secret", time.Hour).Generate(user.ID)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":        "",
		"foreign secret": "Bearer " + foreign,
		"garbage":        "Bearer abc.def.ghi",
		"wrong scheme":   "Basic " + token,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestAuthGate_LogoutAndRelogin(t *testing.T) {
	a := newTestApp(t)
	first := a.registerAndLogin(t, "alice@example.com")

	w := a.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode(t, w)["token"].(string)

	w = a.do(t, http.MethodGet, "/api/users/current", first, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "superseded token")

	w = a.do(t, http.MethodGet, "/api/users/logout", second, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/users/current", second, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "token after logout")

	// сессии уже нет, поэтому повтор с тем же токеном отсекает Auth Gate
	w = a.do(t, http.MethodGet, "/api/users/logout", second, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUsers_UpdateSubscription(t *testing.T) {
	a := newTestApp(t)
	token := a.registerAndLogin(t, "alice@example.com")

	w := a.do(t, http.MethodPatch, "/api/users", token, map[string]string{"subscription": "business"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, map[string]interface{}{"email": "alice@example.com", "subscription": "business"}, decode(t, w)["user"])

	for _, body := range []interface{}{map[string]string{"subscription": "gold"}, map[string]string{}, nil} {
		w = a.do(t, http.MethodPatch, "/api/users", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
		assert.Equal(t, "Invalid subscription type", decode(t, w)["error"].(map[string]interface{})["message"])
	}
}

func TestContacts_CRUD(t *testing.T) {
	a := newTestApp(t)
	token := a.registerAndLogin(t, "alice@example.com")

	id := a.createContact(t, token, "bob", false)

	w := a.do(t, http.MethodGet, "/api/contacts/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	contact := decode(t, w)["data"].(map[string]interface{})["contact"].(map[string]interface{})
	assert.Equal(t, "bob", contact["name"])
	assert.NotEqual(t, "whatever123", contact["owner"], "owner comes from the session")

	replacement := contactBody("robert", true)
	w = a.do(t, http.MethodPut, "/api/contacts/"+id, token, replacement)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	replaced := decode(t, w)["data"].(map[string]interface{})["newContact"].(map[string]interface{})
	assert.Equal(t, "robert", replaced["name"])
	assert.Equal(t, true, replaced["favorite"])

	w = a.do(t, http.MethodPatch, "/api/contacts/"+id+"/status", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPatch, "/api/contacts/"+id+"/status", token, map[string]interface{}{"favorite": false})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["data"].(map[string]interface{})["updatedContact"].(map[string]interface{})
	assert.Equal(t, false, updated["favorite"])
	assert.Equal(t, "robert", updated["name"])

	w = a.do(t, http.MethodDelete, "/api/contacts/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Contact deleted", decode(t, w)["message"])

	w = a.do(t, http.MethodDelete, "/api/contacts/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, "/api/contacts/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContacts_RejectsInvalidPhone(t *testing.T) {
	a := newTestApp(t)
	token := a.registerAndLogin(t, "alice@example.com")

	for _, phone := range []interface{}{"abc", 1.5, -3, 0} {
		body := contactBody("bob", false)
		body["phone"] = phone
		w := a.do(t, http.MethodPost, "/api/contacts", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", phone)
	}

	var count int64
	require.NoError(t, a.db.Model(&models.Contact{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestContacts_OwnershipAndPagination(t *testing.T) {
	a := newTestApp(t)
	alice := a.registerAndLogin(t, "alice@example.com")
	eve := a.registerAndLogin(t, "eve@example.com")

	aliceIDs := map[string]bool{}
	for i := 0; i < 7; i++ {
		aliceIDs[a.createContact(t, alice, "c"+string(rune('a'+i)), i%3 == 0)] = true
	}
	eveContact := a.createContact(t, eve, "mallory", true)

	seen := map[string]int{}
	for page := 1; page <= 3; page++ {
		w := a.do(t, http.MethodGet, "/api/contacts?limit=3&page="+string(rune('0'+page)), alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		pagination := body["pagination"].(map[string]interface{})
		assert.Equal(t, float64(7), pagination["total"])
		assert.Equal(t, float64(3), pagination["limit"])
		for _, c := range body["data"].(map[string]interface{})["contacts"].([]interface{}) {
			seen[c.(map[string]interface{})["id"].(string)]++
		}
	}
	assert.Len(t, seen, 7)
	for id, n := range seen {
		assert.True(t, aliceIDs[id])
		assert.Equal(t, 1, n)
	}

	w := a.do(t, http.MethodGet, "/api/contacts?favorite=true", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	favorites := decode(t, w)["data"].(map[string]interface{})["contacts"].([]interface{})
	assert.Len(t, favorites, 3)

	w = a.do(t, http.MethodGet, "/api/contacts?favorite=maybe", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodGet, "/api/contacts?page=abc&limit=-1", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pagination := decode(t, w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(20), pagination["limit"])

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w = a.do(t, method, "/api/contacts/"+eveContact, alice, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
	w = a.do(t, http.MethodGet, "/api/contacts/"+eveContact, eve, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func avatarRequest(t *testing.T, token string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/users/avatars", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestContacts_DeleteRemovesExactlyOne(t *testing.T) {
	a := newTestApp(t)
	alice := a.registerAndLogin(t, "alice@example.com")
	eve := a.registerAndLogin(t, "eve@example.com")

	first := a.createContact(t, alice, "first", false)
	second := a.createContact(t, alice, "second", false)
	third := a.createContact(t, alice, "third", false)
	eveContact := a.createContact(t, eve, "mallory", false)

	total := func(token string) float64 {
		w := a.do(t, http.MethodGet, "/api/contacts", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		return decode(t, w)["pagination"].(map[string]interface{})["total"].(float64)
	}

	for _, id := range []string{"0123456789abcdef0123456789abcdef", eveContact} {
		w := a.do(t, http.MethodDelete, "/api/contacts/"+id, alice, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, id)
	}
	assert.Equal(t, float64(3), total(alice))
	assert.Equal(t, float64(1), total(eve))

	w := a.do(t, http.MethodDelete, "/api/contacts/"+second, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), total(alice))
	assert.Equal(t, float64(1), total(eve))

	for id, want := range map[string]int{first: http.StatusOK, second: http.StatusNotFound, third: http.StatusOK} {
		w := a.do(t, http.MethodGet, "/api/contacts/"+id, alice, nil)
		assert.Equal(t, want, w.Code, id)
	}
}

func TestUsers_AvatarUpload(t *testing.T) {
	a := newTestApp(t)
	token := a.registerAndLogin(t, "alice@example.com")

	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for x := 0; x < 400; x++ {
		img.Set(x, 150, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, avatarRequest(t, token, buf.Bytes()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	avatarURL := decode(t, w)["avatarURL"].(string)
	require.True(t, strings.HasPrefix(avatarURL, "/avatars/"))

	// файл раздается статикой и имеет размер 250x250
	w = a.do(t, http.MethodGet, avatarURL, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 250, cfg.Width)
	assert.Equal(t, 250, cfg.Height)

	entries, err := os.ReadDir(a.cfg.Upload.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	w = a.do(t, http.MethodGet, "/api/users/current", token, nil)
	assert.Equal(t, avatarURL, decode(t, w)["user"].(map[string]interface{})["avatarURL"])
}

func TestUsers_AvatarRejections(t *testing.T) {
	a := newTestApp(t)
	token := a.registerAndLogin(t, "alice@example.com")

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, avatarRequest(t, token, []byte("plain text pretending to be a png")))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, avatarRequest(t, token, bytes.Repeat([]byte{0xff}, int(a.cfg.Upload.MaxSize)+128<<10)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req := httptest.NewRequest(http.MethodPatch, "/api/users/avatars", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SystemRoutes(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = a.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))

	w = a.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "contacts_http_requests_total")

	w = a.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/contacts")
}
