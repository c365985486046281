package webhook

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"paypal-payments-gateway/internal/client/mocks"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/transient"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func memoryStore(t *testing.T) *transient.MemoryStore {
	t.Helper()
	store := transient.NewMemoryStore(time.Minute, discard())
	t.Cleanup(store.Stop)
	return store
}

type registrarFixture struct {
	db           *gorm.DB
	pp           *mocks.PaypalClient
	options      repository.OptionRepository
	store        *transient.MemoryStore
	orchestrator *Orchestrator
	events       *EventStorage
	simulation   *Simulation
	registrar    *Registrar
}

func setupRegistrar(t *testing.T) *registrarFixture {
	t.Helper()
	db := setupDB(t)
	f := &registrarFixture{
		db:      db,
		pp:      mocks.NewPaypalClient(t),
		options: repository.NewOptionRepository(db),
		store:   memoryStore(t),
	}
	f.orchestrator = NewOrchestrator(f.store, discard())
	f.events = NewEventStorage(f.options)
	f.simulation = NewSimulation(f.pp, f.options, discard())
	f.registrar = NewRegistrar(f.pp, f.options, f.orchestrator, f.events, f.simulation,
		"https://shop.test/paypal/webhook", []string{EventCaptureCompleted, EventCheckoutOrderApproved}, discard())
	return f
}


const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)
