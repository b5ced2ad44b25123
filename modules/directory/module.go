package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/chatroom-service/events"
)

// DirectoryModule resolves room keys to room records and allocates
// unique keys on creation, backed by GORM + SQLite.
type DirectoryModule struct {
	db       *gorm.DB
	repo     *Repository
	genKey   func() string
	eventBus mono.EventBus
	dbPath   string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*DirectoryModule)(nil)
	_ mono.ServiceProviderModule = (*DirectoryModule)(nil)
	_ mono.EventBusAwareModule   = (*DirectoryModule)(nil)
	_ mono.EventEmitterModule    = (*DirectoryModule)(nil)
	_ mono.HealthCheckableModule = (*DirectoryModule)(nil)
)

// NewModule creates a new DirectoryModule.
func NewModule() *DirectoryModule {
	dbPath := os.Getenv("ROOMS_DB_PATH")
	if dbPath == "" {
		dbPath = "rooms.db"
	}
	return &DirectoryModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *DirectoryModule) Name() string {
	return "directory"
}

// SetEventBus receives the EventBus from the framework.
func (m *DirectoryModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *DirectoryModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.RoomCreatedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service
// container. The framework prefixes service names with
// "services.directory." in the underlying NATS subject.
func (m *DirectoryModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createRoom,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getRoom,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	log.Printf("[directory] Registered services: services.directory.{create,get}")
	return nil
}

// Start initializes the database connection, runs migrations, and wires
// the key generator.
func (m *DirectoryModule) Start(_ context.Context) error {
	log.Printf("[directory] Connecting to SQLite database: %s", m.dbPath)

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := m.db.AutoMigrate(&Room{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.repo = NewRepository(m.db)

	if m.genKey == nil {
		gen, err := NewKeyGenerator()
		if err != nil {
			return fmt.Errorf("failed to create key generator: %w", err)
		}
		m.genKey = gen
	}

	log.Println("[directory] Module started successfully")
	return nil
}

// Stop gracefully closes the database connection.
func (m *DirectoryModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	log.Println("[directory] Closing database connection...")

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[directory] Database connection closed")
	return nil
}

// Health performs a health check on the directory module.
func (m *DirectoryModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}
