// Package integration provides end-to-end tests for the phiguard API against
// a real PostgreSQL database. Tests exercise the full stack: authentication,
// tenant scoping, field sealing and disclosure, payload sanitization and the
// scan-and-encrypt migration utility.
package integration

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/phiguard/internal/app"
	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	authUseCase "github.com/allisson/phiguard/internal/auth/usecase"
	"github.com/allisson/phiguard/internal/config"
	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	phiDomain "github.com/allisson/phiguard/internal/phi/domain"
	recordsDTO "github.com/allisson/phiguard/internal/records/http/dto"
	"github.com/allisson/phiguard/internal/testutil"
)

// tenantCredentials holds one tenant with an authenticated client per role.
type tenantCredentials struct {
	tenantID    uuid.UUID
	staffAuth   string
	serviceAuth string
	adminAuth   string
}

// integrationTestContext holds all dependencies and state for integration
// testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	first     tenantCredentials
	second    tenantCredentials
}

func randomEncodedKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

// makeRequest performs an HTTP request with the given Bearer credentials and
// returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	auth string,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, resp.Body.Close())

	return resp, respBody
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T) *integrationTestContext {
	t.Helper()

	testutil.SkipIfNoPostgres(t)
	gin.SetMode(gin.TestMode)

	db := testutil.SetupPostgresDB(t)

	cfg := &config.Config{
		DBDriver:                 "postgres",
		DBConnectionString:       testutil.GetPostgresTestDSN(),
		DBMaxOpenConnections:     10,
		DBMaxIdleConnections:     5,
		DBConnMaxLifetime:        time.Hour,
		ServerHost:               "localhost",
		ServerPort:               8080,
		LogLevel:                 "error",
		FieldEncryptionKey:       randomEncodedKey(t),
		FieldEncryptionAlgorithm: string(cryptoDomain.AESGCM),
		LookupHashSalt:           randomEncodedKey(t),
		CodecTimeout:             5 * time.Second,
		DisclosureRoles:          "staff,admin",
		ForbiddenKeySetVersion:   phiDomain.KeySetVersion,
		AuditSink:                "log",
		WorkerInterval:           time.Minute,
		WorkerBatchSize:          10,
		WorkerMaxRetries:         3,
	}

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	testServer := httptest.NewServer(httpSrv.GetHandler())

	ctx := &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		first:     createTenantWithClients(t, container, "clinica-norte"),
		second:    createTenantWithClients(t, container, "clinica-sul"),
	}
	return ctx
}

// createTenantWithClients provisions a tenant and one client per role.
func createTenantWithClients(t *testing.T, container *app.Container, name string) tenantCredentials {
	t.Helper()

	tenantUC, err := container.TenantUseCase()
	require.NoError(t, err)
	clientUC, err := container.ClientUseCase()
	require.NoError(t, err)

	tenant, err := tenantUC.Create(context.Background(), name)
	require.NoError(t, err)

	creds := tenantCredentials{tenantID: tenant.ID}
	for _, role := range []string{authDomain.RoleStaff, authDomain.RoleService, authDomain.RoleAdmin} {
		client, plainSecret, err := clientUC.Create(context.Background(), authUseCase.CreateClientInput{
			Name:     fmt.Sprintf("%s-%s", name, role),
			TenantID: tenant.ID,
			Role:     role,
		})
		require.NoError(t, err)

		auth := client.ID.String() + ":" + plainSecret
		switch role {
		case authDomain.RoleStaff:
			creds.staffAuth = auth
		case authDomain.RoleService:
			creds.serviceAuth = auth
		case authDomain.RoleAdmin:
			creds.adminAuth = auth
		}
	}
	return creds
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}
	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}
	if ctx.db != nil {
		testutil.CleanupPostgresDB(t, ctx.db)
		testutil.TeardownDB(t, ctx.db)
	}
}

func TestIntegration_Health(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t)
	defer teardownIntegrationTest(t, ctx)

	t.Run("health check", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "healthy")
	})

	t.Run("readiness check", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "ready")
	})

	t.Run("authenticated routes reject anonymous requests", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/records", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestIntegration_Records_SealingAndDisclosure(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t)
	defer teardownIntegrationTest(t, ctx)

	var recordID string

	t.Run("create seals the sensitive fields", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/records", recordsDTO.CreateRecordRequest{
			FullName:   "Maria da Silva",
			NationalID: "529.982.247-25",
			Phone:      "+55 11 98765-4321",
			Address:    "Avenida Paulista, 1000",
		}, ctx.first.staffAuth)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

		var created recordsDTO.RecordResponse
		require.NoError(t, json.Unmarshal(body, &created))
		recordID = created.ID

		// The database row never holds the plaintext.
		var sealed string
		err := ctx.db.QueryRow(
			`SELECT sealed_national_id FROM records WHERE id = $1`, created.ID,
		).Scan(&sealed)
		require.NoError(t, err)
		assert.Contains(t, sealed, "phi:v1:")
		assert.NotContains(t, sealed, "52998224725")
	})

	t.Run("staff reads plaintext", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/records/"+recordID, nil, ctx.first.staffAuth)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var record recordsDTO.RecordResponse
		require.NoError(t, json.Unmarshal(body, &record))
		assert.False(t, record.Redacted)
		assert.Equal(t, "52998224725", record.NationalID)
	})

	t.Run("service role gets a redacted view", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/records/"+recordID, nil, ctx.first.serviceAuth)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var record recordsDTO.RecordResponse
		require.NoError(t, json.Unmarshal(body, &record))
		assert.True(t, record.Redacted)
		assert.Empty(t, record.NationalID)
		assert.NotContains(t, string(body), "529.982.247-25")
	})

	t.Run("lookup by national id ignores formatting", func(t *testing.T) {
		// Created with punctuation, found without it.
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/records/find", recordsDTO.FindRecordRequest{
			NationalID: "52998224725",
		}, ctx.first.staffAuth)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var record recordsDTO.RecordResponse
		require.NoError(t, json.Unmarshal(body, &record))
		assert.Equal(t, recordID, record.ID)
	})

	t.Run("another tenant cannot see the record", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/records/"+recordID, nil, ctx.second.staffAuth)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/records/find", recordsDTO.FindRecordRequest{
			NationalID: "529.982.247-25",
		}, ctx.second.staffAuth)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("another tenant cannot delete the record", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodDelete, "/v1/records/"+recordID, nil, ctx.second.staffAuth)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid cpf is rejected", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/records", recordsDTO.CreateRecordRequest{
			FullName:   "Maria da Silva",
			NationalID: "111.111.111-11",
		}, ctx.first.staffAuth)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestIntegration_Events_Sanitization(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t)
	defer teardownIntegrationTest(t, ctx)

	t.Run("forbidden keys are stripped", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/events", map[string]any{
			"event_type": "appointment_scheduled",
			"payload": map[string]any{
				"cpf":  "529.982.247-25",
				"unit": "cardiology",
			},
		}, ctx.first.serviceAuth)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		assert.NotContains(t, string(body), "cpf")
		assert.NotContains(t, string(body), "529.982.247-25")
		assert.Contains(t, string(body), "cardiology")
	})

	t.Run("sensitive content fails the intake", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/events", map[string]any{
			"event_type": "note_added",
			"payload": map[string]any{
				"note": "reach me at someone@example.com",
			},
		}, ctx.first.serviceAuth)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.NotContains(t, string(body), "someone@example.com")
	})

	t.Run("events are tenant scoped", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/events", map[string]any{
			"event_type": "report_generated",
			"payload":    map[string]any{"count": 3},
		}, ctx.first.serviceAuth)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(body, &created))

		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/events/"+created.ID, nil, ctx.second.serviceAuth)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/events/"+created.ID, nil, ctx.first.serviceAuth)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestIntegration_Tenants_AdminOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t)
	defer teardownIntegrationTest(t, ctx)

	t.Run("staff cannot manage tenants", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/tenants", map[string]any{
			"name": "clinica-oeste",
		}, ctx.first.staffAuth)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin can manage tenants", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tenants", map[string]any{
			"name": "clinica-oeste",
		}, ctx.first.adminAuth)
		assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	})
}

// TestIntegration_ConcurrentTenantIsolation hammers the API from two tenants
// at once and checks no response ever leaks the other tenant's data.
func TestIntegration_ConcurrentTenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t)
	defer teardownIntegrationTest(t, ctx)

	// Seed one record per tenant with distinct (valid) CPFs.
	firstCPF := "529.982.247-25"
	secondCPF := "111.444.777-35"

	resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/records", recordsDTO.CreateRecordRequest{
		FullName:   "Maria da Silva",
		NationalID: firstCPF,
	}, ctx.first.staffAuth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/records", recordsDTO.CreateRecordRequest{
		FullName:   "Joana Pereira",
		NationalID: secondCPF,
	}, ctx.second.staffAuth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)

	for i := 0; i < 40; i++ {
		auth, ownCPF, foreignCPF := ctx.first.staffAuth, firstCPF, secondCPF
		if i%2 == 1 {
			auth, ownCPF, foreignCPF = ctx.second.staffAuth, secondCPF, firstCPF
		}

		g.Go(func() error {
			resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/records/find", recordsDTO.FindRecordRequest{
				NationalID: ownCPF,
			}, auth)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("own record lookup: got status %d", resp.StatusCode)
			}

			resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/records/find", recordsDTO.FindRecordRequest{
				NationalID: foreignCPF,
			}, auth)
			if resp.StatusCode != http.StatusNotFound {
				return fmt.Errorf("foreign record lookup: got status %d, want 404", resp.StatusCode)
			}
			return nil
		})
	}

	assert.NoError(t, g.Wait())
}

func TestIntegration_ScanEncryptMigration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t)
	defer teardownIntegrationTest(t, ctx)

	// Simulate a legacy row written before encryption was enforced.
	legacyID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()
	_, err := ctx.db.Exec(
		`INSERT INTO records
		 (id, tenant_id, full_name, sealed_national_id, sealed_phone, sealed_address,
		  national_id_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, '', '', '', $5, $5)`,
		legacyID, ctx.first.tenantID, "Maria da Silva", "52998224725", now,
	)
	require.NoError(t, err)

	migrationUC, err := ctx.container.MigrationUseCase()
	require.NoError(t, err)

	t.Run("dry run reports without writing", func(t *testing.T) {
		report, err := migrationUC.ScanAndMigrate(context.Background(), 10, true)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Migrated)

		var sealed string
		require.NoError(t, ctx.db.QueryRow(
			`SELECT sealed_national_id FROM records WHERE id = $1`, legacyID,
		).Scan(&sealed))
		assert.Equal(t, "52998224725", sealed)
	})

	t.Run("migration encrypts in place", func(t *testing.T) {
		report, err := migrationUC.ScanAndMigrate(context.Background(), 10, false)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Migrated)
		assert.Empty(t, report.Issues)

		var sealed string
		require.NoError(t, ctx.db.QueryRow(
			`SELECT sealed_national_id FROM records WHERE id = $1`, legacyID,
		).Scan(&sealed))
		assert.Contains(t, sealed, "phi:v1:")

		// The migrated record is now findable through the lookup hash.
		resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/records/find", recordsDTO.FindRecordRequest{
			NationalID: "52998224725",
		}, ctx.first.staffAuth)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("second run is idempotent", func(t *testing.T) {
		report, err := migrationUC.ScanAndMigrate(context.Background(), 10, false)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Migrated)
	})
}
