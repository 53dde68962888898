package services

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"contacts_backend/database"
	"contacts_backend/internal/auth"
	"contacts_backend/internal/email"
	"contacts_backend/internal/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	To      []string
	Subject string
	Link    string
}

// recordingProvider запоминает письма вместо отправки
type recordingProvider struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (p *recordingProvider) Send(*email.Email) error { return p.fail }

func (p *recordingProvider) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	if p.fail != nil {
		return p.fail
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	link, _ := data["Link"].(string)
	p.sent = append(p.sent, sentMail{To: to, Subject: subject, Link: link})
	return nil
}

func (p *recordingProvider) Validate() error { return nil }
func (p *recordingProvider) Close() error    { return nil }

func (p *recordingProvider) last() sentMail {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sent) == 0 {
		return sentMail{}
	}
	return p.sent[len(p.sent)-1]
}

var errSMTPDown = errors.New("smtp: connection refused")

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type authFixture struct {
	db     *gorm.DB
	mail   *recordingProvider
	tokens *auth.TokenManager
	svc    AuthService
	users  repositories.UserRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mail := &recordingProvider{}
	tokens := auth.NewTokenManager("test-secret", 12*time.Hour)
	users := repositories.NewUserRepository()

	return &authFixture{
		db:     newTestDB(t),
		mail:   mail,
		tokens: tokens,
		users:  users,
		svc:    NewAuthService(users, tokens, NewEmailService(mail, "http://localhost:3000")),
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader собирает настоящий multipart.FileHeader, как его видит gin
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File[field]
	require.Len(t, files, 1)
	return files[0]
}
