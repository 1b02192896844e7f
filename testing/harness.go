// Package e2etesting boots the full application on a loopback port for
// end-to-end tests.
package e2etesting

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/greenpoll/app"
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/internal/options"
	"github.com/tech-arch1tect/greenpoll/models"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/tech-arch1tect/greenpoll/services/mail"
	"github.com/tech-arch1tect/greenpoll/testutils"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const stopTimeout = 5 * time.Second

type E2EApp struct {
	App             *app.App
	BaseURL         string
	Config          *config.Config
	DB              *gorm.DB
	Mailbox         *Mailbox
	CoverageTracker *CoverageTracker
}

type TestConfig struct {
	OverrideConfig  func(*config.Config)
	EnableCoverage  bool
	ExcludePatterns []string
}

// emailsDir locates the repository's email templates independent of the
// test's working directory.
func emailsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "emails")
}

func createTestConfig(testConfig TestConfig) *config.Config {
	cfg := testutils.GetTestConfig()
	// The test client talks plain HTTP, so the cookie jar must see the cookie.
	cfg.Session.Secure = false
	cfg.Mail.TemplatesDir = emailsDir()

	if testConfig.OverrideConfig != nil {
		testConfig.OverrideConfig(cfg)
	}
	return cfg
}

// NewTestApp starts the application and stops it when the test ends.
func NewTestApp(t *testing.T, testConfig TestConfig) *E2EApp {
	t.Helper()

	cfg := createTestConfig(testConfig)
	mailbox := &Mailbox{}
	var db *gorm.DB

	builtApp, err := app.New(
		options.WithConfig(cfg),
		options.WithFxOptions(
			fx.Decorate(func(cfg *config.Config, logger *logging.Service, _ *mail.Service) (*mail.Service, error) {
				return mail.NewServiceWithClient(&cfg.Mail, logger.Named("mail"), mailbox)
			}),
			fx.Populate(&db),
		),
	)
	require.NoError(t, err, "failed to build test app")

	e2eApp := &E2EApp{
		App:     builtApp,
		Config:  cfg,
		DB:      db,
		Mailbox: mailbox,
	}

	if testConfig.EnableCoverage {
		e2eApp.CoverageTracker = NewCoverageTracker()
		for _, pattern := range testConfig.ExcludePatterns {
			e2eApp.CoverageTracker.AddExcludePattern(pattern)
		}
		e2eApp.CoverageTracker.RegisterRoutes(builtApp.Echo())
		builtApp.Echo().Use(e2eApp.CoverageTracker.TrackingMiddleware())
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	require.NoError(t, builtApp.Start(ctx), "failed to start test app")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := builtApp.Stop(ctx); err != nil {
			t.Errorf("failed to stop test app: %v", err)
		}
	})

	addr := builtApp.Server().Addr()
	require.NotNil(t, addr, "server is not listening")
	e2eApp.BaseURL = fmt.Sprintf("http://%s", addr.String())

	return e2eApp
}

// Client returns a client with its own cookie jar, i.e. a separate browser.
func (e *E2EApp) Client() *HTTPClient {
	return NewHTTPClient(e.BaseURL)
}

func (e *E2EApp) AssertSessionCount(t *testing.T, userID uint, expected int) {
	t.Helper()
	var count int64
	require.NoError(t, e.DB.Model(&models.Session{}).Where("user_id = ?", userID).Count(&count).Error)
	require.Equal(t, int64(expected), count, "unexpected number of sessions")
}

func (e *E2EApp) AssertMinimumCoverage(t *testing.T, minPercent float64) {
	t.Helper()
	if e.CoverageTracker == nil {
		t.Fatalf("coverage tracking not enabled")
		return
	}
	stats := e.CoverageTracker.GetStats()
	if stats.Coverage < minPercent {
		e.CoverageTracker.PrintReport()
		t.Fatalf("coverage %.1f%% is below minimum required %.1f%%", stats.Coverage, minPercent)
	}
}
